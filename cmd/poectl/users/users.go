package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/poe-manager/backend/cmd/poectl/config"
	"github.com/poe-manager/backend/cmd/poectl/output"
	"github.com/spf13/cobra"
)

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// InitUsers registers user administration commands on the root command.
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	usersCmd.AddCommand(listUsersCmd(), setActiveCmd("activate", true), setActiveCmd("deactivate", false))
	rootCmd.AddCommand(usersCmd)
}

func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Data []user `json:"data"`
			}
			if err := apiGet("/users", &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Data))
			for _, u := range out.Data {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.Role, u.Active})
			}
			output.RenderTable([]string{"ID", "Username", "Email", "Role", "Active"}, rows)
			return nil
		},
	}
}

func setActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: use + " a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]bool{"active": active})

			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, err := http.NewRequest("PATCH", config.APIURL()+"/users/"+args[0]+"/active", bytes.NewBuffer(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			fmt.Printf("User %s %sd.\n", args[0], use)
			return nil
		},
	}
}

func apiGet(path string, out interface{}) error {
	token, err := config.LoadToken()
	if err != nil {
		return fmt.Errorf("please login first")
	}

	req, err := http.NewRequest("GET", config.APIURL()+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
