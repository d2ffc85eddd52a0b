/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package event_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/suplalite/suplalite/event"
)

func TestEvent(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}

var _ = Describe("Event bus", func() {
	It("dispatches handlers for one event id in registration order, and processes events strictly in enqueue order", func() {
		bus := event.NewBus()
		var order []string

		bus.Register(event.ScopeDevice, event.ChannelSetValue, func(_ context.Context, _ uint32, payload any) {
			p := payload.(event.ChannelSetValuePayload)
			order = append(order, "h1:"+string(rune('0'+p.ChannelID)))
		})
		bus.Register(event.ScopeDevice, event.ChannelSetValue, func(_ context.Context, _ uint32, payload any) {
			p := payload.(event.ChannelSetValuePayload)
			order = append(order, "h2:"+string(rune('0'+p.ChannelID)))
		})

		q := event.NewQueue(event.ScopeDevice, 1, 8)
		ctx, cancel := context.WithCancel(context.Background())
		go q.Run(ctx, bus)

		q.Enqueue(event.ChannelSetValue, event.ChannelSetValuePayload{ChannelID: 1})
		q.Enqueue(event.ChannelSetValue, event.ChannelSetValuePayload{ChannelID: 2})

		Eventually(func() []string { return order }, time.Second).Should(Equal(
			[]string{"h1:1", "h2:1", "h1:2", "h2:2"},
		))
		cancel()
	})

	It("stops dispatching once the run context is canceled", func() {
		bus := event.NewBus()
		delivered := make(chan struct{}, 1)
		bus.Register(event.ScopeServer, event.DeviceConnected, func(_ context.Context, _ uint32, _ any) {
			delivered <- struct{}{}
		})

		q := event.NewQueue(event.ScopeServer, 0, 8)
		ctx, cancel := context.WithCancel(context.Background())
		go q.Run(ctx, bus)
		cancel()

		time.Sleep(20 * time.Millisecond)
		q.Enqueue(event.DeviceConnected, event.DeviceConnectedPayload{DeviceID: 1})

		select {
		case <-delivered:
			Fail("handler ran after cancellation")
		case <-time.After(50 * time.Millisecond):
		}
	})
})