package shadow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/history"
	"github.com/Dronakurl/atuin/internal/testutil"
)

var benchSink string

func benchHistory(b *testing.B, entries int) string {
	b.Helper()
	var sb strings.Builder
	for i := 1; i <= entries; i++ {
		sb.WriteString(Format(testutil.Record(testutil.SequentialID(i), int64(i), fmt.Sprintf("cmd-%d", i))))
	}
	path := filepath.Join(b.TempDir(), "fish_history")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkFormat(b *testing.B) {
	rec := testutil.Record(testutil.SequentialID(1), 1700000000, "git commit -m 'update the thing'")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchSink = Format(rec)
	}
}

func BenchmarkAppend(b *testing.B) {
	path := filepath.Join(b.TempDir(), "fish_history")
	rec := testutil.Record(testutil.SequentialID(1), 1700000000, "git status")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Append(rec, path, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSyncMany(b *testing.B) {
	for _, size := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			recs := make([]history.Record, size)
			for i := range recs {
				recs[i] = testutil.Record(testutil.SequentialID(i+1), int64(i+1), fmt.Sprintf("cmd-%d", i+1))
			}
			s := &Syncer{
				Settings: config.FishSync{
					Enabled:     true,
					HistoryPath: filepath.Join(b.TempDir(), "fish_history"),
				},
				Installed: func() bool { return true },
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if n := s.SyncMany(recs); n != size {
					b.Fatalf("synced %d of %d", n, size)
				}
			}
		})
	}
}

func BenchmarkSyncedIDs(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			path := benchHistory(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := SyncedIDs(path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLastTimestamp(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			path := benchHistory(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := LastTimestamp(path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTrim(b *testing.B) {
	for _, size := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			var sb strings.Builder
			for i := 1; i <= size; i++ {
				sb.WriteString(Format(testutil.Record(testutil.SequentialID(i), int64(i), fmt.Sprintf("cmd-%d", i))))
			}
			content := []byte(sb.String())
			path := filepath.Join(b.TempDir(), "fish_history")
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				if err := os.WriteFile(path, content, 0o600); err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
				if err := Trim(path, size/2); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
