package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr error
	}{
		{name: "blank", line: "   ", want: nil},
		{name: "ls", line: "ls", want: List{}},
		{name: "pwd", line: "pwd", want: PrintDir{}},
		{name: "uniq", line: "uniq", want: Uniq{}},
		{name: "clear", line: "clear", want: Clear{}},
		{name: "exit", line: "exit", want: Exit{}},
		{name: "cd", line: "cd dir1", want: ChangeDir{Target: "dir1"}},
		{name: "cd surrounding whitespace", line: "  cd   ..  ", want: ChangeDir{Target: ".."}},
		{name: "cat", line: "cat file1.txt", want: Cat{Name: "file1.txt"}},
		{name: "cd without argument", line: "cd", wantErr: ErrUsage},
		{name: "cd with two arguments", line: "cd a b", wantErr: ErrUsage},
		{name: "cat without argument", line: "cat", wantErr: ErrUsage},
		{name: "ls with argument", line: "ls -l", wantErr: ErrUsage},
		{name: "unknown verb", line: "rm -rf /", wantErr: ErrUnknownCommand},
		{name: "verbs are case sensitive", line: "LS", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
