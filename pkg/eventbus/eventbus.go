package eventbus

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventBus is a minimal in-process pub/sub used to announce import/export
// lifecycle events. Handlers are plain funcs; an event is delivered to every
// subscriber whose single parameter type matches the published value.
type EventBus interface {
	Publish(event any)
	Subscribe(handler any)
	SubscribersCount() int
}

type publisher struct {
	log *logrus.Logger

	mu       sync.RWMutex
	handlers []reflect.Value
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

func (p *publisher) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func || v.Type().NumIn() != 1 {
		if p.log != nil {
			p.log.Warnf("eventbus: ignoring subscriber with signature %T", handler)
		}
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, v)
}

func (p *publisher) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

func (p *publisher) Publish(event any) {
	arg := reflect.ValueOf(event)
	p.mu.RLock()
	handlers := make([]reflect.Value, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	for _, h := range handlers {
		param := h.Type().In(0)
		if !arg.Type().AssignableTo(param) {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.Errorf("eventbus: handler %s panicked: %v", h.Type(), r)
				}
			}()
			h.Call([]reflect.Value{arg})
		}()
	}
}
