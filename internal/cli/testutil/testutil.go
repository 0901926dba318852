// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// Catalog is the catalog.yaml written by SetupTestProject.
const Catalog = `datasets:
  orders:
    type: snowflake.TableDataset
    table_name: ORDERS
    schema: LANDING
    database: RAW
    credentials: dev
    save_args:
      if_exists: replace
  recent_orders:
    type: snowflake.QueryDataset
    sql: SELECT ID FROM RAW.LANDING.ORDERS
    credentials: dev
  orders_ref:
    type: dummies.TableNameDataset
    table_name: ORDERS
    schema: LANDING
    database: RAW
  refresh_orders:
    type: dummies.SprocNameDataset
    sproc_name: RAW.UTIL.REFRESH_ORDERS
`

// Credentials is the credentials.yaml written by SetupTestProject.
const Credentials = `dev:
  account: xy12345
  user: loader
  password: ${SF_TEST_PASSWORD}
  warehouse: LOAD_WH
`

// OrdersCSV is the orders.csv written by SetupTestProject.
const OrdersCSV = `id,name,amount,created_at
1,Alice,10.5,2024-01-02 03:04:05
2,Bob,7,2024-01-03 00:00:00
`

// SetupTestProject creates a temporary project with a catalog, credentials
// and a CSV file to save.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	files := map[string]string{
		"catalog.yaml":     Catalog,
		"credentials.yaml": Credentials,
		"orders.csv":       OrdersCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return tmpDir
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
