// SPDX-FileCopyrightText: © 2025 The minchat authors
// SPDX-License-Identifier: AGPL-3.0-only

// minchat terminal chat client
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minchat/minchat/client"
	"github.com/minchat/minchat/client/config"
	"github.com/minchat/minchat/common"
)

// Config holds the command line configuration
type Config struct {
	ConfigFile string
	Server     string
	Verbose    bool
}

// newRootCommand creates the root cobra command
func newRootCommand() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "minchat",
		Short: "minchat terminal chat client",
		Long: `The minchat client connects to a minchat server over a websocket and
joins the chat from the terminal. On first run it generates an RSA identity
keypair under the configured data directory and announces the public key to
the server, which replies with a wrapped session key. Once the key exchange
completes all chat messages travel as encrypted session tokens.

Core functionality:
• Reconnects automatically with exponential backoff when the link drops
• Queues messages composed while offline and delivers them on reconnect
• Spools the undelivered queue to disk across restarts
• Relays typing notices and room rosters from the server

Messages are sent by typing a line and pressing enter. Lines starting with
/room switch the active room, /quit exits.`,
		Example: `
  # Start the client with a configuration file
  minchat --config ~/.minchat/client.toml

  # Start the client with a specific config file (short form)
  minchat -c /path/to/custom-client.toml

  # Point the client at a different server for one run
  minchat -c ~/.minchat/client.toml -s wss://chat.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cfg)
		},
	}

	// Configuration flags
	cmd.Flags().StringVarP(&cfg.ConfigFile, "config", "c", "",
		"path to the client configuration file (TOML format)")
	cmd.Flags().StringVarP(&cfg.Server, "server", "s", "",
		"server URL, overriding the config file and MINCHAT_SERVER_URL")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false,
		"log at DEBUG level")

	// Mark required flags
	cmd.MarkFlagRequired("config")

	return cmd
}

func main() {
	rootCmd := newRootCommand()
	common.ExecuteWithFang(rootCmd)
}

// runClient starts the chat client
func runClient(cfg Config) error {
	haltCh := make(chan os.Signal, 1)
	signal.Notify(haltCh, os.Interrupt, syscall.SIGTERM)

	if cfg.Server != "" {
		os.Setenv("MINCHAT_SERVER_URL", cfg.Server)
	}
	clientCfg, err := config.LoadFile(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %v", err)
	}
	if cfg.Verbose {
		l := *clientCfg.Logging
		l.Disable = false
		l.Level = "DEBUG"
		clientCfg.Logging = &l
	}

	c, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %v", err)
	}
	defer c.Shutdown()

	s, err := c.NewSession(nil)
	if err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}

	go printEvents(s)

	if err = s.Connect(context.Background()); err != nil {
		fmt.Printf("* initial connection failed: %v\n", err)
	}

	lines := make(chan string)
	go readLines(lines)

	room := client.DefaultRoom
	for {
		select {
		case <-haltCh:
			fmt.Println("* shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == "/quit":
				return nil
			case strings.HasPrefix(line, "/room "):
				room = strings.TrimSpace(strings.TrimPrefix(line, "/room "))
				if room == "" {
					room = client.DefaultRoom
				}
				fmt.Printf("* talking in %s\n", room)
			default:
				if err := s.SendMessage(line, room); err != nil {
					fmt.Printf("* send failed: %v\n", err)
				}
			}
		}
	}
}

// readLines feeds stdin to the command loop, closing the channel on EOF.
func readLines(lines chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	close(lines)
}

// printEvents renders session events to the terminal.
func printEvents(s *client.Session) {
	for e := range s.EventSink {
		switch ev := e.(type) {
		case *client.MessageReceivedEvent:
			fmt.Printf("[%s] %s: %s\n", ev.RoomID, ev.Username, ev.Content)
		case *client.ConnectionStatusEvent:
			if ev.IsConnected {
				fmt.Println("* connected")
			} else {
				fmt.Printf("* disconnected: %v\n", ev.Err)
			}
		case *client.KeyExchangeEvent:
			if ev.Err == nil {
				fmt.Println("* secure session established")
			} else {
				fmt.Printf("* key exchange failed: %v\n", ev.Err)
			}
		case *client.MessageQueuedEvent:
			fmt.Printf("* offline, message queued (%d pending)\n", ev.QueueLen)
		case *client.TypingNoticeEvent:
			if ev.IsTyping {
				fmt.Printf("* %s is typing\n", ev.Username)
			}
		case *client.UserListEvent:
			fmt.Printf("* %d online: %s\n", ev.Count, strings.Join(ev.Users, ", "))
		case *client.ServerErrorEvent:
			fmt.Printf("* server error: %s\n", ev.Message)
		case *client.MessageSentEvent:
		default:
			fmt.Printf("* %s\n", e)
		}
	}
}
