package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testResume = `Jane Doe
jane.doe@example.com
Senior engineer building Python services backed by SQL databases.
Experienced with Docker and excellent communication.`

// execute runs the root command in-process with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RESUME_ANALYZER_DATABASE_URL", "")
	t.Setenv("RESUME_ANALYZER_VOCABULARY", "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default so invocations don't leak
// into each other.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// writeFixtures creates a vocabulary file and a resume in a temp dir.
func writeFixtures(t *testing.T) (dir, vocab, resume string) {
	t.Helper()
	dir = t.TempDir()
	vocab = writeFile(t, dir, "skills.txt", "Python\nSQL\ndocker\nkubernetes\ncommunication\n\n")
	resume = writeFile(t, dir, "jane.txt", testResume)
	return dir, vocab, resume
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
