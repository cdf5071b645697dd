package mocks

import "github.com/jath03/openrgb-go/protocol/packet"
import "github.com/stretchr/testify/mock"

import "time"

type Session struct {
	mock.Mock
}

// Send provides a mock function with given fields: deviceIndex, packetType, payload
func (_m *Session) Send(deviceIndex uint32, packetType packet.PacketType, payload []byte) error {
	ret := _m.Called(deviceIndex, packetType, payload)

	var r0 error
	if rf, ok := ret.Get(0).(func(uint32, packet.PacketType, []byte) error); ok {
		r0 = rf(deviceIndex, packetType, payload)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Request provides a mock function with given fields: deviceIndex, packetType, payload, timeout
func (_m *Session) Request(deviceIndex uint32, packetType packet.PacketType, payload []byte, timeout time.Duration) ([]byte, error) {
	ret := _m.Called(deviceIndex, packetType, payload, timeout)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(uint32, packet.PacketType, []byte, time.Duration) []byte); ok {
		r0 = rf(deviceIndex, packetType, payload, timeout)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(uint32, packet.PacketType, []byte, time.Duration) error); ok {
		r1 = rf(deviceIndex, packetType, payload, timeout)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Version provides a mock function with given fields:
func (_m *Session) Version() uint32 {
	ret := _m.Called()

	var r0 uint32
	if rf, ok := ret.Get(0).(func() uint32); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(uint32)
	}

	return r0
}
