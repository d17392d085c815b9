package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \t b \n c "))
	require.Equal(t, "", CollapseWhitespace(" \n\t "))
}

func TestCollapseSeparators(t *testing.T) {
	require.Equal(t, "g skill", CollapseSeparators("G.Skill"))
	require.Equal(t, "tp link", CollapseSeparators("TP-Link"))
	require.Equal(t, "western digital", CollapseSeparators("Western_Digital"))
}

func TestStripBrackets(t *testing.T) {
	require.Equal(t, "  ASUS B650", StripBrackets("[공식인증] ASUS B650"))
	require.Equal(t, "no brackets", StripBrackets("no brackets"))
}

func TestHasHangul(t *testing.T) {
	require.True(t, HasHangul("삼성전자"))
	require.True(t, HasHangul("SK하이닉스"))
	require.False(t, HasHangul("Western Digital"))
}
