// Command feedctl is a terminal front end for an actionfeed server. It lists the
// action feed, runs item actions and tails the activity log.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/client"
	"github.com/gosuda/actionfeed/internal/domain"
)

var errNoToken = errors.New("not signed in: run 'feedctl login' or set FEEDCTL_TOKEN") //nolint:gochecknoglobals // sentinel error

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra root
	Use:   "feedctl",
	Short: "Action feed CLI",
	Long: `feedctl works the action feed of an actionfeed server from a terminal.
- items: the feed, grouped by day, with the actions each item offers you.
- act: run one of those actions (dismiss, remove_user, restore_user, resend_invite).
- logs: the company activity log.
- watch: stream feed changes as they happen.`,
	SilenceUsage: true,
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func initConfig() {
	viper.SetEnvPrefix("FEEDCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("server", "s", "http://localhost:8080", "actionfeed server URL")
	rootCmd.PersistentFlags().String("token", "", "access token (see 'feedctl login')")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(actCmd())
	rootCmd.AddCommand(logsCmd())
	rootCmd.AddCommand(watchCmd())
}

// session returns a client for the configured server together with the viewer the
// token was issued to. The token is not verified here; the server does that on
// every call.
func session() (*client.Client, domain.CurrentUser, error) {
	token := viper.GetString("token")
	if token == "" {
		return nil, domain.CurrentUser{}, errNoToken
	}
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		return nil, domain.CurrentUser{}, fmt.Errorf("read token: %w", err)
	}
	viewer, err := claims.CurrentUser()
	if err != nil {
		return nil, domain.CurrentUser{}, fmt.Errorf("read token: %w", err)
	}
	return client.New(viper.GetString("server"), client.WithToken(token)), viewer, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
