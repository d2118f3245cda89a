package mail

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/config"
)

// Module exposes the receipt sender to the fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) Sender {
	if !p.Config.MailEnabled() {
		return NewNopSender(p.Logger)
	}
	return NewSMTPSender(p.Config.SMTPHost, p.Config.SMTPPort, p.Config.SMTPUser, p.Config.SMTPPass)
}
