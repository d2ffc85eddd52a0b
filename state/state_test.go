/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/suplalite/suplalite/event"
	"github.com/suplalite/suplalite/state"
	"github.com/suplalite/suplalite/wire"
)

var _ = Describe("World state", func() {
	var s *state.State

	BeforeEach(func() {
		s = state.New()
	})

	Describe("channel name uniqueness", func() {
		It("refuses a second channel with an already-used name, and resolves by name repeatedly", func() {
			devID := s.AddDevice("relay-1", wire.GUID{1}, 10, 20)
			chID, err := s.AddChannel(devID, "kitchen-relay", "Kitchen", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			got, err := s.GetChannelByName("kitchen-relay")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(chID))

			again, err := s.GetChannelByName("kitchen-relay")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ID).To(Equal(got.ID))

			_, err = s.AddChannel(devID, "kitchen-relay", "Kitchen 2", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, nil, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("single-session devices", func() {
		It("rejects a second concurrent DeviceConnected for the same device", func() {
			devID := s.AddDevice("relay-1", wire.GUID{2}, 10, 20)
			sink := event.NewQueue(event.ScopeDevice, devID, 8)

			ok, err := s.DeviceConnected(devID, wire.ProtoVersion, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = s.DeviceConnected(devID, wire.ProtoVersion, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			d, err := s.GetDevice(devID)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Online).To(BeTrue())
		})
	})

	Describe("dimmer memory", func() {
		It("retains the last non-zero brightness in LastValue after a turn-off", func() {
			devID := s.AddDevice("dimmer-1", wire.GUID{3}, 10, 20)
			chID, err := s.AddChannel(devID, "lamp", "Lamp", wire.ChannelTypeDimmer, wire.ChannelFuncDimmer, 0, 0, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			set := func(brightness uint8) {
				Expect(s.SetChannelValue(chID, wire.DimmerValue{Brightness: brightness}.Encode())).To(Succeed())
			}

			set(42)
			set(0) // TURN_OFF

			ch, err := s.GetChannel(chID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.Value[0]).To(Equal(uint8(0)))
			Expect(ch.LastValue).NotTo(BeNil())
			Expect(ch.LastValue[0]).To(Equal(uint8(42)))
		})

		It("never sees a LastValue for a dimmer that was never set non-zero", func() {
			devID := s.AddDevice("dimmer-2", wire.GUID{4}, 10, 20)
			chID, err := s.AddChannel(devID, "lamp2", "Lamp2", wire.ChannelTypeDimmer, wire.ChannelFuncDimmer, 0, 0, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			ch, err := s.GetChannel(chID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.LastValue).To(BeNil())
		})
	})

	Describe("icon interning", func() {
		It("derives the same id for identical icon bytes and a different id otherwise", func() {
			devID := s.AddDevice("dev", wire.GUID{5}, 1, 1)
			img := [][]byte{[]byte("png-bytes")}

			ch1, err := s.AddChannel(devID, "c1", "C1", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, img, nil)
			Expect(err).NotTo(HaveOccurred())
			ch2, err := s.AddChannel(devID, "c2", "C2", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, img, nil)
			Expect(err).NotTo(HaveOccurred())

			c1, _ := s.GetChannel(ch1)
			c2, _ := s.GetChannel(ch2)
			Expect(c1.UserIcon).To(Equal(c2.UserIcon))
			Expect(c1.UserIcon).NotTo(BeZero())

			stored, ok := s.GetIcon(c1.UserIcon)
			Expect(ok).To(BeTrue())
			Expect(stored).To(Equal(img))

			ch3, err := s.AddChannel(devID, "c3", "C3", wire.ChannelTypeRelay, wire.ChannelFuncPowerSwitch, 0, 0, [][]byte{[]byte("other-png-bytes")}, nil)
			Expect(err).NotTo(HaveOccurred())
			c3, _ := s.GetChannel(ch3)
			Expect(c3.UserIcon).NotTo(Equal(c1.UserIcon))
		})
	})

	Describe("client registration", func() {
		It("reuses the same client id across reconnects for the same GUID", func() {
			guid := wire.GUID{7}
			id1 := s.RegisterClient(guid)
			id2 := s.RegisterClient(guid)
			Expect(id1).To(Equal(id2))
		})

		It("rejects a second concurrent ClientConnected for the same client", func() {
			guid := wire.GUID{8}
			id := s.RegisterClient(guid)
			sink := event.NewQueue(event.ScopeClient, id, 8)

			ok, err := s.ClientConnected(id, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = s.ClientConnected(id, sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})