package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/poe-manager/backend/cmd/poectl/config"
	"github.com/poe-manager/backend/cmd/poectl/output"
	"github.com/spf13/cobra"
)

type entry struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// InitAudit registers the audit trail command on the root command.
func InitAudit(rootCmd *cobra.Command) {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, err := http.NewRequest("GET", fmt.Sprintf("%s/audit?limit=%d", config.APIURL(), limit), nil)
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

			var out struct {
				Data []entry `json:"data"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Data))
			for _, e := range out.Data {
				rows = append(rows, []interface{}{e.ID, e.Timestamp.Format(time.RFC3339), e.User, e.Action, e.Details})
			}
			output.RenderTable([]string{"ID", "Timestamp", "User", "Action", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	rootCmd.AddCommand(cmd)
}
