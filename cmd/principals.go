package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaredshillingburg/icehockey-analytics/auth"
)

// devPrincipals is the fixed fallback credential set used when no
// principals file is configured, mirroring the teacher's pattern of a
// small set of known credentials wired directly at startup
// (auth.NewPrincipalStore's own doc comment).
var devPrincipals = []auth.Principal{
	{Username: "coach", Secret: "coach-dev-secret", Role: auth.RoleCoach, DisplayName: "Dev Coach"},
	{Username: "analyst", Secret: "analyst-dev-secret", Role: auth.RoleAnalyst, DisplayName: "Dev Analyst"},
	{Username: "scout", Secret: "scout-dev-secret", Role: auth.RoleScout, DisplayName: "Dev Scout"},
	{Username: "player", Secret: "player-dev-secret", Role: auth.RolePlayer, DisplayName: "Dev Player", PlayerID: "8480018"},
}

// principalsFile is the on-disk shape a deployment supplies its real
// principal table in, keeping the opaque-token table (spec.md §4.1) out
// of source control.
type principalsFile struct {
	Principals []auth.Principal `yaml:"principals"`
}

// loadPrincipals reads the principal table from path, falling back to
// devPrincipals when path is empty or missing — config.Validate's "never
// fails hard on a missing optional field" rule applies here too.
func loadPrincipals(path string) ([]auth.Principal, error) {
	if path == "" {
		return devPrincipals, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return devPrincipals, nil
		}
		return nil, err
	}
	var f principalsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if len(f.Principals) == 0 {
		return devPrincipals, nil
	}
	return f.Principals, nil
}
