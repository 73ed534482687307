package shell

import (
	"bytes"
	"strings"
	"testing"

	"zipvfs/internal/testutil"
	"zipvfs/internal/vfs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEmulator(t *testing.T, opts ...Option) (*Emulator, *bytes.Buffer) {
	t.Helper()
	fs, err := vfs.Open(testutil.WriteSampleZip(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = fs.Close()
	})

	var out bytes.Buffer
	return NewEmulator(fs, &out, opts...), &out
}

func TestEmulatorCommands(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "ls at root",
			lines: []string{"ls"},
			want:  "dir1/\nempty_dir/\nfile1.txt\nfile2.txt\n",
		},
		{
			name:  "cd and ls",
			lines: []string{"cd dir1", "ls"},
			want:  "current directory: /dir1\ndir2/\nfile3.txt\n",
		},
		{
			name:  "cd to missing directory",
			lines: []string{"cd nonexistent", "pwd"},
			want:  "directory not found: nonexistent\n/\n",
		},
		{
			name:  "cd parent at root",
			lines: []string{"cd .."},
			want:  "current directory: /\n",
		},
		{
			name:  "ls in empty directory prints nothing",
			lines: []string{"cd empty_dir", "ls"},
			want:  "current directory: /empty_dir\n",
		},
		{
			name:  "cat file",
			lines: []string{"cat file2.txt"},
			want:  "foo\nbar\nfoo\n",
		},
		{
			name:  "cat missing file",
			lines: []string{"cat missing.txt"},
			want:  "error: read missing.txt: file not found\n",
		},
		{
			name:  "uniq after cat",
			lines: []string{"cat file1.txt", "uniq"},
			want:  "hello\nworld\nhello\nhello\nworld\n",
		},
		{
			name:  "uniq without changes prints nothing",
			lines: []string{"ls", "uniq"},
			want:  "dir1/\nempty_dir/\nfile1.txt\nfile2.txt\n",
		},
		{
			name:  "uniq with nothing to process",
			lines: []string{"uniq"},
			want:  "nothing to process\n",
		},
		{
			name:  "clear resets last output",
			lines: []string{"ls", "clear", "uniq"},
			want:  "dir1/\nempty_dir/\nfile1.txt\nfile2.txt\n" + ClearScreen + "nothing to process\n",
		},
		{
			name:  "unknown command",
			lines: []string{"rm file1.txt"},
			want:  "unknown command: rm\n",
		},
		{
			name:  "usage error",
			lines: []string{"cd"},
			want:  "error: usage: cd takes exactly one argument\n",
		},
		{
			name:  "commands after exit are ignored",
			lines: []string{"exit", "ls"},
			want:  "exiting\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, out := setupEmulator(t)
			for _, line := range tt.lines {
				e.ExecuteLine(line)
			}
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestFailedCdKeepsLastOutput(t *testing.T) {
	e, _ := setupEmulator(t)
	e.ExecuteLine("ls")
	e.ExecuteLine("cd nowhere")
	assert.Equal(t, "dir1/\nempty_dir/\nfile1.txt\nfile2.txt", e.LastOutput())
}

func TestRunScript(t *testing.T) {
	e, out := setupEmulator(t)

	script := strings.Join([]string{
		"cd dir1",
		"",
		"   ",
		"cat file3.txt",
		"uniq",
		"exit",
		"ls",
	}, "\n")

	require.NoError(t, e.RunScript(strings.NewReader(script)))
	assert.False(t, e.Running())
	assert.Equal(t,
		"current directory: /dir1\napple\nbanana\napple\napple\nbanana\nexiting\n",
		out.String())
}

func TestRun(t *testing.T) {
	t.Run("until exit", func(t *testing.T) {
		e, out := setupEmulator(t)
		require.NoError(t, e.Run(strings.NewReader("cd dir1\nexit\npwd\n")))
		assert.Equal(t, "/$ current directory: /dir1\n/dir1$ exiting\n", out.String())
	})

	t.Run("until end of input", func(t *testing.T) {
		e, out := setupEmulator(t, WithPrompt("> "))
		require.NoError(t, e.Run(strings.NewReader("pwd")))
		assert.True(t, e.Running())
		assert.Equal(t, "> /\n> \n", out.String())
	})
}
