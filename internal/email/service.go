package email

import "context"

type Service interface {
	SendInvitation(ctx context.Context, to, tempPassword string) error
}
