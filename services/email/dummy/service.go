package dummymail

import (
	"sync"

	"github.com/mwalimu/darasa/core"
)

// Service collects messages instead of sending them. Test backend.
type Service struct {
	mutex sync.Mutex
	Sent  []*core.EmailMessage
}

var _ core.EmailService = (*Service)(nil)

func NewService() *Service {
	return &Service{}
}

func (svc *Service) SendMessages(messages ...*core.EmailMessage) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	svc.Sent = append(svc.Sent, messages...)
}
