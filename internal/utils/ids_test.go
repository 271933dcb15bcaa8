package utils

import (
	"strings"
	"testing"
)

func TestIDsAreDeterministic(t *testing.T) {
	if MalcodeID("FIN") != MalcodeID("FIN") {
		t.Error("MalcodeID is not deterministic")
	}
	if TableID("FIN", "accounts") != TableID("FIN", "accounts") {
		t.Error("TableID is not deterministic")
	}
	if ColumnID("FIN", "accounts", "balance") != ColumnID("FIN", "accounts", "balance") {
		t.Error("ColumnID is not deterministic")
	}
}

func TestIDsNormalizeCaseAndWhitespace(t *testing.T) {
	if MalcodeID("FIN") != MalcodeID("  fin ") {
		t.Error("MalcodeID should ignore case and surrounding whitespace")
	}
	if TableID("FIN", "Accounts") != TableID("fin", "accounts") {
		t.Error("TableID should ignore case")
	}
	if ColumnID("FIN", "accounts", "Balance ") != ColumnID("fin", "ACCOUNTS", "balance") {
		t.Error("ColumnID should ignore case and surrounding whitespace")
	}
}

func TestIDFormat(t *testing.T) {
	id := MalcodeID("FIN")
	if !strings.HasPrefix(id, "malcode_") {
		t.Errorf("MalcodeID = %q, want malcode_ prefix", id)
	}
	if len(id) != len("malcode_")+16 {
		t.Errorf("MalcodeID = %q, want a 16 hex char suffix", id)
	}

	if !strings.HasPrefix(TableID("FIN", "accounts"), "table_") {
		t.Error("TableID should carry the table_ prefix")
	}
	if !strings.HasPrefix(ColumnID("FIN", "accounts", "balance"), "column_") {
		t.Error("ColumnID should carry the column_ prefix")
	}
}

func TestIDsDistinguishKeyParts(t *testing.T) {
	if TableID("FIN", "accounts") == TableID("HR", "accounts") {
		t.Error("different malcodes should yield different table IDs")
	}
	if ColumnID("FIN", "accounts", "id") == ColumnID("FIN", "orders", "id") {
		t.Error("different tables should yield different column IDs")
	}

	// The separator keeps ("ab","c") and ("a","bc") apart.
	if TableID("ab", "c") == TableID("a", "bc") {
		t.Error("key part boundaries should be preserved")
	}
}
