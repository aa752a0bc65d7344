package main

import (
	"github.com/poe-manager/backend/cmd/poectl/audit"
	"github.com/poe-manager/backend/cmd/poectl/auth"
	"github.com/poe-manager/backend/cmd/poectl/poes"
	"github.com/poe-manager/backend/cmd/poectl/root"
	"github.com/poe-manager/backend/cmd/poectl/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	poes.InitPoes(rootCmd)
	audit.InitAudit(rootCmd)

	root.Execute()
}
