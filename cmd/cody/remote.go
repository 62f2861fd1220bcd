package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bevzzz/cody/internal/remote"
)

// RemoteReposResult is the payload of the remote repos command.
type RemoteReposResult struct {
	Server       string   `json:"server" yaml:"server"`
	Repositories []string `json:"repositories" yaml:"repositories"`
}

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Inspect the remote context backend",
}

var remotePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity and authentication",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		client, err := requireRemote(e)
		if err != nil {
			return err
		}
		if err := client.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", client.Server().Name)
		return nil
	},
}

var remoteReposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories the backend indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		client, err := requireRemote(e)
		if err != nil {
			return err
		}

		var repos []string
		cursor := ""
		for {
			page, next, err := client.ListRepos(cmd.Context(), e.cfg.Remote.SearchLimit, cursor)
			if err != nil {
				return err
			}
			repos = append(repos, page...)
			if next == "" {
				break
			}
			cursor = next
		}

		return printResult(&RemoteReposResult{
			Server:       client.Server().Name,
			Repositories: repos,
		})
	},
}

var remoteCacheClearCmd = &cobra.Command{
	Use:   "cache-clear",
	Short: "Drop cached results for the configured server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if e.remoteClient == nil {
			return fmt.Errorf("remote result caching is not enabled")
		}
		return e.remoteClient.InvalidateAll()
	},
}

func requireRemote(e *engine) (*remote.Client, error) {
	if e.client == nil {
		return nil, fmt.Errorf("no remote server declared in %s", e.cfg.Remote.ServersFile)
	}
	return e.client, nil
}

func init() {
	remoteCmd.AddCommand(remotePingCmd)
	remoteCmd.AddCommand(remoteReposCmd)
	remoteCmd.AddCommand(remoteCacheClearCmd)
	rootCmd.AddCommand(remoteCmd)
}
