package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/mwalimu/darasa/core"
)

// consoleService writes emails to the console instead of sending them. DEV backend.
type consoleService struct {
	subjPrefix string
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{subjPrefix: "[" + conf.AppName + "] "}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if msg.HasRecipients() && msg.HasContent() {
				log.Printf(
					"\n--- EMAIL ---\nTo: %s\nSubject: %s%s\n\n%s\n-------------\n",
					joinAddresses(msg.To), svc.subjPrefix, msg.Subject, msg.Body,
				)
			}
		}()
	}
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		strs = append(strs, fmt.Sprint(addr.String()))
	}
	return strings.Join(strs, ", ")
}
