// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keranjangkita/keranjang/internal/member"
)

func newMemberCommand(app *App) *cobra.Command {
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Log in as a member to get a discount",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var name, phone string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with part of your name and the last 4 digits of your phone",
		Long: `Log in with part of your name and the last 4 digits of your phone.

The member directory is fetched once per login and never retried. The
discount applies to the cart until you log out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				m, err := s.session.Login(cmd.Context(), member.Query{Name: name, PhoneSuffix: phone})
				if err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s Welcome, %s\n", SuccessStyle.Render("✓"), describeMember(m))
				return nil
			})
		},
	}
	loginCmd.Flags().StringVar(&name, "name", "", "part of the member name")
	loginCmd.Flags().StringVar(&phone, "phone", "", "last 4 digits of the phone number")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Log the member out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				if err := s.session.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s Logged out\n", SuccessStyle.Render("✓"))
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				m := s.session.Member(cmd.Context())
				if m == nil {
					fmt.Fprintln(app.stdout, SubtitleStyle.Render("Not logged in"))
					return nil
				}
				fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("name"), m.Name)
				fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("level"), m.Level)
				fmt.Fprintf(app.stdout, "%s: %s%%\n", CmdStyle.Render("discount"), m.DiscountPercentage.Clamp())
				fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("phone"), maskPhone(m.Phone))
				return nil
			})
		},
	}

	memberCmd.AddCommand(loginCmd, logoutCmd, showCmd)
	return memberCmd
}
