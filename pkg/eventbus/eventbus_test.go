package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/praekeltfoundation/contentrepo-go/pkg/eventbus"
)

type pageImported struct {
	Slug string
}

type assessmentImported struct {
	Slug string
}

func TestPublish_DeliversToMatchingSubscribersOnly(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	var pages, assessments []string
	bus.Subscribe(func(e pageImported) { pages = append(pages, e.Slug) })
	bus.Subscribe(func(e assessmentImported) { assessments = append(assessments, e.Slug) })

	bus.Publish(pageImported{Slug: "home-info"})
	bus.Publish(pageImported{Slug: "sub"})
	bus.Publish(assessmentImported{Slug: "quiz"})

	assert.Equal(t, []string{"home-info", "sub"}, pages)
	assert.Equal(t, []string{"quiz"}, assessments)
}

func TestSubscribe_RejectsBadSignatures(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())
	bus.Subscribe("not a func")
	bus.Subscribe(func(a, b pageImported) {})

	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())
	bus.Subscribe(func(e pageImported) { panic("boom") })

	var delivered bool
	bus.Subscribe(func(e pageImported) { delivered = true })

	bus.Publish(pageImported{Slug: "x"})
	assert.True(t, delivered)
}
