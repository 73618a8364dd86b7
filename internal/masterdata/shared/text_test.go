package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	require.Equal(t, Fold("  Nguyễn Văn An "), Fold("NGUYỄN VĂN AN"))
	// "ễ" precomposed vs e + circumflex + tilde
	require.Equal(t, Fold("Nguyễn"), Fold("Nguyễn"))
	require.NotEqual(t, Fold("An"), Fold("Ân"))
}

func TestLoose(t *testing.T) {
	require.Equal(t, "duong cat", Loose("Đường Cát"))
	require.Contains(t, Loose("Sữa tươi Vinamilk"), Loose("sua tuoi"))
}

func TestKeywordFilter(t *testing.T) {
	require.True(t, KeywordFilter{Query: "  "}.IsEmpty())
	require.Equal(t, "An", KeywordFilter{Query: " An "}.Keyword())
}
