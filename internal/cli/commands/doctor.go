package commands

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sfcatalog/internal/cli/config"
	"github.com/leapstack-labs/sfcatalog/internal/cli/output"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Offline bool // Skip the connectivity checks
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the catalog, credentials and warehouse connectivity",
		Long: `Check that the catalog and credentials are complete and that every
credentials entry used by a data set can reach its warehouse.

The report includes:
- Catalog summary (data sets by type, credentials, files in use)
- Checks grouped by category (Configuration, Credentials, Connectivity)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: text report
  - Piped/Scripted: CSV of the checks
  - JSON: Machine-readable format`,
		Example: `  # Run all checks
  sfcatalog doctor

  # Skip connecting to the warehouse
  sfcatalog doctor --offline

  # Output as JSON
  sfcatalog doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Skip the connectivity checks")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         CatalogSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// CatalogSummary contains catalog-level statistics.
type CatalogSummary struct {
	Datasets        int            `json:"datasets"`
	Credentials     int            `json:"credentials"`
	ByType          map[string]int `json:"by_type"`
	CatalogFile     string         `json:"catalog_file"`
	CredentialsFile string         `json:"credentials_file,omitempty"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error", "skip"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

type rule struct {
	id, name, group string
	severity        string // status reported when the rule finds issues
}

var doctorRules = []rule{
	{"CF01", "Catalog file found", "configuration", "error"},
	{"CF02", "Credentials file found", "configuration", "warn"},
	{"CR01", "Credentials fully expanded", "credentials", "warn"},
	{"CR02", "Credentials in use", "credentials", "warn"},
	{"CN01", "Warehouse reachable", "connectivity", "error"},
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	cat := cmdCtx.Catalog
	r := cmdCtx.Renderer

	summary := CatalogSummary{
		Credentials:     len(cfg.Credentials),
		ByType:          make(map[string]int),
		CatalogFile:     config.GetConfigFileUsed(),
		CredentialsFile: config.GetCredentialsFileUsed(),
	}

	// Credentials referenced by at least one data set
	used := make(map[string][]string)
	for _, e := range cat.List() {
		summary.Datasets++
		summary.ByType[e.Type]++
		if name, ok := e.Dataset.Describe()["credentials"].(string); ok && name != "" {
			used[name] = append(used[name], e.Name)
		}
	}

	findings := make(map[string][]string)
	if summary.CatalogFile == "" {
		findings["CF01"] = append(findings["CF01"], "no catalog.yaml found in this directory or its parents")
	}
	if summary.CredentialsFile == "" && len(used) > 0 {
		findings["CF02"] = append(findings["CF02"], "no credentials.yaml found next to the catalog")
	}
	for _, name := range cat.Credentials() {
		creds := cfg.Credentials[name]
		for _, field := range unexpandedFields(creds) {
			findings["CR01"] = append(findings["CR01"], fmt.Sprintf("%s.%s references an unset environment variable", name, field))
		}
		if _, ok := used[name]; !ok {
			findings["CR02"] = append(findings["CR02"], fmt.Sprintf("%s is not used by any data set", name))
		}
	}

	skipped := map[string]bool{"CN01": opts.Offline}
	if !opts.Offline {
		names := make([]string, 0, len(used))
		for name := range used {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := cat.Ping(cmd.Context(), name); err != nil {
				findings["CN01"] = append(findings["CN01"], fmt.Sprintf("%s: %v", name, err))
				continue
			}
			cmdCtx.Logger.Debug("warehouse reachable", "credentials", name, "datasets", used[name])
		}
	}

	out := buildDoctorOutput(summary, findings, skipped)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeCSV:
		rows := make([][]any, len(out.HealthChecks))
		for i, c := range out.HealthChecks {
			rows[i] = []any{c.RuleID, c.Name, c.Group, c.Status, c.IssueCount}
		}
		return r.Table([]string{"rule_id", "name", "group", "status", "issues"}, rows)
	default:
		return renderDoctorText(r, out)
	}
}

// unexpandedFields lists the connection fields still holding a ${VAR}
// reference after expansion.
func unexpandedFields(c core.AdapterConfig) []string {
	fields := []struct{ name, value string }{
		{"account", c.Account},
		{"user", c.User},
		{"password", c.Password},
		{"host", c.Host},
		{"database", c.Database},
		{"schema", c.Schema},
		{"warehouse", c.Warehouse},
		{"role", c.Role},
	}
	var names []string
	for _, f := range fields {
		if strings.Contains(f.value, "${") {
			names = append(names, f.name)
		}
	}
	keys := make([]string, 0, len(c.Options))
	for k := range c.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(c.Options[k], "${") {
			names = append(names, "options."+k)
		}
	}
	return names
}

func buildDoctorOutput(summary CatalogSummary, findings map[string][]string, skipped map[string]bool) *DoctorOutput {
	checks := make([]HealthCheck, 0, len(doctorRules))
	issues := 0
	for _, rl := range doctorRules {
		details := findings[rl.id]
		status := "pass"
		switch {
		case skipped[rl.id]:
			status = "skip"
		case len(details) > 0:
			status = rl.severity
		}
		issues += len(details)
		checks = append(checks, HealthCheck{
			RuleID:     rl.id,
			Name:       rl.name,
			Group:      rl.group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Datasets),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issues,
	}
}

// calculateHealthScore computes a health score from 0-100.
// Errors cost twice as much as warnings; larger catalogs dilute each issue.
func calculateHealthScore(checks []HealthCheck, datasetCount int) int {
	score := 100.0

	basePenalty := 5.0
	if datasetCount > 10 {
		basePenalty = 3.0
	}
	if datasetCount > 50 {
		basePenalty = 2.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := getRecommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CF01":
		return "Run 'sfcatalog init' or pass --config with the path to catalog.yaml"
	case "CF02":
		return "Move connection settings to credentials.yaml and keep it out of version control"
	case "CR01":
		return "Export the environment variables referenced in credentials.yaml"
	case "CR02":
		return "Remove credentials entries that no data set uses"
	case "CN01":
		return "Check account, user, password and network access for the failing credentials"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	r.Println("sfcatalog health report")
	r.Println(strings.Repeat("=", 55))
	r.Println("")

	r.Println("Catalog Summary")
	r.Println(fmt.Sprintf("   Data sets: %d | Credentials: %d", out.Summary.Datasets, out.Summary.Credentials))
	types := make([]string, 0, len(out.Summary.ByType))
	for t := range out.Summary.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		r.Println(fmt.Sprintf("   %s: %d", t, out.Summary.ByType[t]))
	}
	r.Println("")

	r.Println("Health Checks")
	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("")
			r.Println("   " + titleCaser.String(currentGroup))
			r.Println("   " + strings.Repeat("-", 40))
		}

		icon := "✓"
		switch check.Status {
		case "warn":
			icon = "!"
		case "error":
			icon = "✗"
		case "skip":
			icon = "-"
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(fmt.Sprintf("       ... and %d more", len(check.Details)-3))
				break
			}
			r.Println("       - " + detail)
		}
	}
	r.Println("")

	r.Println(strings.Repeat("=", 55))
	r.Println(fmt.Sprintf("   Health Score: %d/100", out.Score))

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println("Recommendations")
		for i, rec := range out.Recommendations {
			r.Println(fmt.Sprintf("   %d. %s", i+1, rec))
		}
	}

	if out.IssueCount > 0 {
		r.Warning(fmt.Sprintf("%d issues found", out.IssueCount))
	} else {
		r.Success("no issues found")
	}
	return nil
}
