package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkRecord_Single(b *testing.B) {
	tr := NewTrail("eval-bench", "bench venture")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.RecordPolicy("market", "search_comparables", true, "allowed")
	}
}

func benchVerify(b *testing.B, n int) {
	b.Helper()
	tr := NewTrail("eval-bench", "bench venture")
	for i := 0; i < n; i++ {
		tr.RecordPolicy("market", "search_comparables", true, "allowed")
	}
	path := filepath.Join(b.TempDir(), "bench.jsonl")
	if err := tr.WriteJSONL(path); err != nil {
		b.Fatal(err)
	}

	info, _ := os.Stat(path)
	b.ResetTimer()
	b.SetBytes(info.Size())

	for i := 0; i < b.N; i++ {
		result := Verify(path)
		if !result.Valid {
			b.Fatal("invalid chain:", result.Error)
		}
	}
}

func BenchmarkVerify_1000(b *testing.B) {
	benchVerify(b, 1000)
}

func BenchmarkVerify_10000(b *testing.B) {
	benchVerify(b, 10000)
}
