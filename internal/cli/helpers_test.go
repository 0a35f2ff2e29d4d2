package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const personSchema = `
package schema

entity: Person: properties: {
	lastName: string
	age:      int
	status:   string
	address: {association: "Address"}
}

entity: Address: properties: {
	city: string
}

repository: PersonRepository: {
	entity: "Person"
	methods: {
		findByLastName: {params: ["lastName"], returns: "[]Person"}
		countByStatus: {params: ["status"], returns: "int64"}
		findByAddressCity: {params: ["city"], returns: "[]Person"}
	}
}
`

// brokenRepository adds a method that is missing its parameter.
const brokenRepository = `
package schema

repository: BrokenRepository: {
	entity: "Person"
	methods: findByAgeGreaterThan: {returns: "[]Person"}
}
`

// writeSchemaDir writes the given files into a fresh temp directory.
func writeSchemaDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// execute runs cmd with args and returns stdout and the command error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
