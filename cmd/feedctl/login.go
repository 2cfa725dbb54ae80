package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/actionfeed/internal/client"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		Long: `Sign in with email and password. The access token is printed as a shell
export line; eval it to use the other commands:

  eval "$(feedctl login --company <id> --email me@example.com)"

The password is read from --password or FEEDCTL_PASSWORD.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			companyID, err := uuid.Parse(viper.GetString("company"))
			if err != nil {
				return fmt.Errorf("--company: %w", err)
			}
			email := viper.GetString("email")
			password := viper.GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			c := client.New(viper.GetString("server"))
			s, err := c.Login(cmd.Context(), companyID, email, password)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(s)
			}
			fmt.Printf("export FEEDCTL_TOKEN=%s\n", s.AccessToken)
			return nil
		},
	}
	cmd.Flags().String("company", "", "company ID")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "password")
	_ = viper.BindPFlag("company", cmd.Flags().Lookup("company"))
	_ = viper.BindPFlag("email", cmd.Flags().Lookup("email"))
	_ = viper.BindPFlag("password", cmd.Flags().Lookup("password"))
	return cmd
}
