package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/device"
)

var (
	flagDeviceIndex int
	flagDeviceName  string
	flagFast        bool

	cmdDevice = &cobra.Command{
		Use:               `device`,
		Short:             `interact with devices`,
		PersistentPreRun:  setupClient,
		PersistentPostRun: closeClient,
		Run:               usage,
	}

	cmdDeviceList = &cobra.Command{
		Use:   `list`,
		Short: `list devices exposed by the server`,
		Run:   deviceList,
	}

	cmdDeviceColor = &cobra.Command{
		Use:   `color <hex>`,
		Short: `set a device (or every device) to a single color`,
		Run:   deviceColor,
	}

	cmdDeviceMode = &cobra.Command{
		Use:   `mode <name|index>`,
		Short: `activate a mode on a device`,
		Run:   deviceMode,
	}

	cmdDeviceClear = &cobra.Command{
		Use:   `clear`,
		Short: `turn off a device (or every device)`,
		Run:   deviceClear,
	}
)

func init() {
	cmdDevice.PersistentFlags().IntVarP(&flagDeviceIndex, `index`, `i`, -1, `device index, all devices when negative`)
	cmdDevice.PersistentFlags().StringVarP(&flagDeviceName, `name`, `n`, ``, `select devices by name substring`)
	cmdDevice.PersistentFlags().BoolVarP(&flagFast, `fast`, `f`, false, `skip refresh after writes`)

	cmdDevice.AddCommand(cmdDeviceList)
	cmdDevice.AddCommand(cmdDeviceColor)
	cmdDevice.AddCommand(cmdDeviceMode)
	cmdDevice.AddCommand(cmdDeviceClear)
}

func selectedDevices() []*device.Device {
	if flagDeviceIndex >= 0 {
		dev, err := client.Device(flagDeviceIndex)
		if err != nil {
			logger.WithField(`error`, err).Fatalln(`Unknown device index`)
		}
		return []*device.Device{dev}
	}
	if flagDeviceName != `` {
		devices := client.DevicesByName(flagDeviceName, false)
		if len(devices) == 0 {
			logger.WithField(`name`, flagDeviceName).Fatalln(`No devices match name`)
		}
		return devices
	}
	return client.Devices()
}

func deviceList(c *cobra.Command, args []string) {
	for _, dev := range client.Devices() {
		fmt.Printf("%d: %s (%s, %d zones, %d LEDs)\n", dev.Index(), dev.Name(), dev.Type(), len(dev.Zones()), len(dev.LEDs()))
		for _, zone := range dev.Zones() {
			fmt.Printf("    zone %d: %s (%d LEDs)\n", zone.Index(), zone.Name(), zone.Size())
		}
		for _, mode := range dev.Modes() {
			marker := ` `
			if active := dev.ActiveMode(); active != nil && active.Index() == mode.Index() {
				marker = `*`
			}
			fmt.Printf("   %s mode %d: %s\n", marker, mode.Index(), mode.Name())
		}
	}
}

func deviceColor(c *cobra.Command, args []string) {
	if len(args) != 1 {
		c.Usage()
		fmt.Println()
		logger.Fatalln(`Missing color`)
	}

	color, err := common.ColorFromHex(args[0])
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Invalid color`)
	}
	for _, dev := range selectedDevices() {
		if err := dev.SetColor(color, flagFast); err != nil {
			logger.WithFields(map[string]interface{}{
				`device`: dev.Name(),
				`error`:  err,
			}).Fatalln(`Failed setting color`)
		}
	}
}

func deviceMode(c *cobra.Command, args []string) {
	if len(args) != 1 {
		c.Usage()
		fmt.Println()
		logger.Fatalln(`Missing mode`)
	}

	var ref interface{} = args[0]
	if idx, err := strconv.Atoi(args[0]); err == nil {
		ref = idx
	}
	for _, dev := range selectedDevices() {
		if err := dev.SetMode(ref, false); err != nil {
			logger.WithFields(map[string]interface{}{
				`device`: dev.Name(),
				`error`:  err,
			}).Fatalln(`Failed setting mode`)
		}
	}
}

func deviceClear(c *cobra.Command, args []string) {
	for _, dev := range selectedDevices() {
		if err := dev.Clear(); err != nil {
			logger.WithFields(map[string]interface{}{
				`device`: dev.Name(),
				`error`:  err,
			}).Fatalln(`Failed clearing device`)
		}
	}
}
