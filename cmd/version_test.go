package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")

	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cmd.Run(cmd, nil)

	if !strings.Contains(out.String(), "qbo-mcp version 1.2.3") {
		t.Errorf("Unexpected version output: %q", out.String())
	}
}
