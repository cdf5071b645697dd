package openrgb_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/jath03/openrgb-go"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

var _ = Describe("OpenRGB", func() {
	var (
		server     *sdkServer
		client     *Client
		profileDir string
	)

	newTestClient := func() *Client {
		c, err := NewClient(Options{
			Host:             `127.0.0.1`,
			Port:             server.port(),
			Timeout:          500 * time.Millisecond,
			ProfileDirectory: profileDir,
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		var err error
		server, err = newSDKServer(4, strip(`Desk`, 4), keyboard(`Board`, 6))
		Expect(err).NotTo(HaveOccurred())
		profileDir, err = os.MkdirTemp(``, `openrgb-test`)
		Expect(err).NotTo(HaveOccurred())
		client = newTestClient()
	})

	AfterEach(func() {
		client.Close()
		server.stop()
		os.RemoveAll(profileDir)
	})

	It("negotiates the newest shared protocol version", func() {
		Expect(client.ProtocolVersion()).To(Equal(uint32(4)))
		Expect(client.Connected()).To(BeTrue())
	})

	It("fails when no server is listening", func() {
		server.stop()
		_, err := NewClient(Options{Host: `127.0.0.1`, Port: server.port()})
		Expect(err).To(MatchError(common.ErrConnectionRefused))
	})

	It("enumerates the server's devices", func() {
		devices := client.Devices()
		Expect(devices).To(HaveLen(2))
		Expect(devices[0].Name()).To(Equal(`Desk`))
		Expect(devices[1].Name()).To(Equal(`Board`))
	})

	It("finds a device by index", func() {
		dev, err := client.Device(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(dev.Name()).To(Equal(`Board`))

		_, err = client.Device(7)
		Expect(err).To(MatchError(common.ErrNotFound))
	})

	It("finds devices by type", func() {
		Expect(client.DevicesByType(common.DeviceKeyboard)).To(HaveLen(1))
		Expect(client.DevicesByType(common.DeviceMouse)).To(BeEmpty())
	})

	It("finds devices by name", func() {
		Expect(client.DevicesByName(`desk`, false)).To(HaveLen(1))
		Expect(client.DevicesByName(`desk`, true)).To(BeEmpty())
		Expect(client.DevicesByName(`Desk`, true)).To(HaveLen(1))
	})

	It("selects only devices with a direct mode for effects", func() {
		devices := client.EffectDevices()
		Expect(devices).To(HaveLen(1))
		Expect(devices[0].Name()).To(Equal(`Desk`))
	})

	It("paints every device with one color", func() {
		Expect(client.SetColor(common.Color{Red: 255}, false)).To(Succeed())
		Expect(server.deviceColors(0)).To(HaveEach(common.Color{Red: 255}))
		Expect(server.deviceColors(1)).To(HaveEach(common.Color{Red: 255}))
	})

	It("applies mode changes and sees them on refresh", func() {
		dev, err := client.Device(0)
		Expect(err).NotTo(HaveOccurred())

		Expect(dev.SetMode(`Breathing`, false)).To(Succeed())
		Expect(dev.ActiveMode()).NotTo(BeNil())
		Expect(dev.ActiveMode().Name()).To(Equal(`Breathing`))
	})

	It("re-enumerates when the server announces a device list change", func() {
		sub, err := client.NewSubscription()
		Expect(err).NotTo(HaveOccurred())
		defer client.CloseSubscription(sub)

		server.notifyDeviceListUpdated()
		Eventually(sub.Events(), time.Second).Should(Receive(BeAssignableToTypeOf(common.EventDeviceListUpdated{})))
	})

	It("refuses operations after Close", func() {
		Expect(client.Close()).To(Succeed())
		Expect(client.Close()).To(MatchError(common.ErrClosed))
		Expect(client.Connected()).To(BeFalse())
	})

	It("recovers a usable session on Reconnect", func() {
		Expect(client.Close()).To(Succeed())

		client = newTestClient()
		Expect(client.Reconnect()).To(Succeed())
		Expect(client.Devices()).To(HaveLen(2))
	})

	Describe("server profiles", func() {
		It("starts with an empty listing", func() {
			Expect(client.Profiles()).To(BeEmpty())
		})

		It("saves, lists and deletes profiles", func() {
			Expect(client.SaveProfile(`Gaming`)).To(Succeed())
			Expect(client.Profiles()).To(ConsistOf(`Gaming`))
			Expect(server.profileNames()).To(ConsistOf(`Gaming`))

			Expect(client.LoadProfile(`gaming`)).To(Succeed())

			Expect(client.DeleteProfile(`Gaming`)).To(Succeed())
			Expect(client.Profiles()).To(BeEmpty())
		})

		It("rejects loading a profile the server does not have", func() {
			Expect(client.LoadProfile(`Nonexistent`)).To(MatchError(common.ErrNotFound))
		})
	})

	Describe("local profiles", func() {
		It("round-trips device state through an .orp file", func() {
			Expect(client.SetColor(common.Color{Green: 200}, false)).To(Succeed())
			Expect(client.SaveLocalProfile(`desk-setup`, ``)).To(Succeed())

			_, err := os.Stat(filepath.Join(profileDir, `desk-setup.orp`))
			Expect(err).NotTo(HaveOccurred())

			Expect(client.SetColor(common.Color{Red: 255}, false)).To(Succeed())
			Expect(server.deviceColors(0)).To(HaveEach(common.Color{Red: 255}))

			Expect(client.LoadLocalProfile(`desk-setup`, ``)).To(Succeed())
			Expect(server.deviceColors(0)).To(HaveEach(common.Color{Green: 200}))
			Expect(server.deviceColors(1)).To(HaveEach(common.Color{Green: 200}))
		})

		It("rejects a profile whose devices do not match the session", func() {
			mismatched := &packet.LocalProfile{Controllers: []*packet.ControllerData{strip(`Other`, 4)}}
			path := filepath.Join(profileDir, `other.orp`)
			Expect(os.WriteFile(path, mismatched.Encode(), 0o644)).To(Succeed())

			err := client.LoadLocalProfile(`other`, ``)
			Expect(err).To(MatchError(common.ErrProfileMismatch))
			Expect(server.commandCount(packet.UpdateLEDs)).To(BeZero())
		})

		It("fails cleanly on a missing profile file", func() {
			Expect(client.LoadLocalProfile(`no-such`, ``)).NotTo(Succeed())
		})
	})
})
