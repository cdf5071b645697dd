package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagProfileLocal bool
	flagProfileDir   string

	cmdProfile = &cobra.Command{
		Use:               `profile`,
		Short:             `manage lighting profiles`,
		PersistentPreRun:  setupClient,
		PersistentPostRun: closeClient,
		Run:               usage,
	}

	cmdProfileList = &cobra.Command{
		Use:   `list`,
		Short: `list profiles stored on the server`,
		Run:   profileList,
	}

	cmdProfileSave = &cobra.Command{
		Use:   `save <name>`,
		Short: `save the current lighting state as a profile`,
		Run:   profileSave,
	}

	cmdProfileLoad = &cobra.Command{
		Use:   `load <name>`,
		Short: `apply a saved profile`,
		Run:   profileLoad,
	}

	cmdProfileDelete = &cobra.Command{
		Use:   `delete <name>`,
		Short: `delete a profile from the server`,
		Run:   profileDelete,
	}
)

func init() {
	cmdProfile.PersistentFlags().BoolVarP(&flagProfileLocal, `local`, `l`, false, `operate on local .orp files instead of the server store`)
	cmdProfile.PersistentFlags().StringVarP(&flagProfileDir, `dir`, `d`, ``, `directory for local profiles, platform config dir when empty`)

	cmdProfile.AddCommand(cmdProfileList)
	cmdProfile.AddCommand(cmdProfileSave)
	cmdProfile.AddCommand(cmdProfileLoad)
	cmdProfile.AddCommand(cmdProfileDelete)
}

func profileName(c *cobra.Command, args []string) string {
	if len(args) != 1 {
		c.Usage()
		fmt.Println()
		logger.Fatalln(`Missing profile name`)
	}
	return args[0]
}

func profileList(c *cobra.Command, args []string) {
	for _, name := range client.Profiles() {
		fmt.Println(name)
	}
}

func profileSave(c *cobra.Command, args []string) {
	name := profileName(c, args)

	var err error
	if flagProfileLocal {
		err = client.SaveLocalProfile(name, flagProfileDir)
	} else {
		err = client.SaveProfile(name)
	}
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed saving profile`)
	}
}

func profileLoad(c *cobra.Command, args []string) {
	name := profileName(c, args)

	var err error
	if flagProfileLocal {
		err = client.LoadLocalProfile(name, flagProfileDir)
	} else {
		err = client.LoadProfile(name)
	}
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed loading profile`)
	}
}

func profileDelete(c *cobra.Command, args []string) {
	name := profileName(c, args)

	if flagProfileLocal {
		logger.Fatalln(`Delete local profiles with your file manager`)
	}
	if err := client.DeleteProfile(name); err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed deleting profile`)
	}
}
