package poes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/poe-manager/backend/cmd/poectl/config"
	"github.com/poe-manager/backend/cmd/poectl/output"
	"github.com/spf13/cobra"
)

type poe struct {
	ID            int     `json:"id"`
	Code          string  `json:"code"`
	Title         string  `json:"title"`
	Establishment string  `json:"establishment"`
	Status        string  `json:"status"`
	Version       int     `json:"version"`
	CreatedBy     string  `json:"createdBy"`
	ApprovedBy    *string `json:"approvedBy"`
}

// InitPoes registers document commands on the root command.
func InitPoes(rootCmd *cobra.Command) {
	poesCmd := &cobra.Command{
		Use:   "poes",
		Short: "Browse procedure documents",
	}

	poesCmd.AddCommand(listPoesCmd(), pendingPoesCmd(), showPoeCmd())
	rootCmd.AddCommand(poesCmd)
}

func listPoesCmd() *cobra.Command {
	var establishment string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/poes"
			if establishment != "" {
				path += "?establishment=" + url.QueryEscape(establishment)
			}

			var out struct {
				Data []poe `json:"data"`
			}
			if err := apiGet(path, &out); err != nil {
				return err
			}
			renderPoes(out.Data)
			return nil
		},
	}

	cmd.Flags().StringVar(&establishment, "establishment", "", "Filter by establishment")
	return cmd
}

func pendingPoesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List documents awaiting approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Data []poe `json:"data"`
			}
			if err := apiGet("/poes/pending", &out); err != nil {
				return err
			}
			renderPoes(out.Data)
			return nil
		},
	}
}

func showPoeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Data json.RawMessage `json:"data"`
			}
			if err := apiGet("/poes/"+args[0], &out); err != nil {
				return err
			}

			var pretty any
			if err := json.Unmarshal(out.Data, &pretty); err != nil {
				return err
			}
			b, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
}

func renderPoes(list []poe) {
	rows := make([][]interface{}, 0, len(list))
	for _, p := range list {
		approvedBy := ""
		if p.ApprovedBy != nil {
			approvedBy = *p.ApprovedBy
		}
		rows = append(rows, []interface{}{p.ID, p.Code, p.Title, p.Establishment, p.Status, p.Version, p.CreatedBy, approvedBy})
	}
	output.RenderTable([]string{"ID", "Code", "Title", "Establishment", "Status", "Version", "Created By", "Approved By"}, rows)
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
