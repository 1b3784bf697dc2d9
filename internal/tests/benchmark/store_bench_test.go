package benchmark

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/yndnr/rediskv-go/internal/storage/memory"
)

// BenchmarkStoreSet benchmarks writes into a preloaded store.
func BenchmarkStoreSet(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			store.Set("bench:"+strconv.Itoa(i), "value")
		}

		b.StopTimer()
		reportMemory(b, "mem")
	})
}

// BenchmarkStoreGet benchmarks reads of existing keys.
func BenchmarkStoreGet(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		keys := prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, ok := store.Get(keys[i%len(keys)]); !ok {
				b.Fatal("Get missed a prefilled key")
			}
		}
	})
}

// BenchmarkStoreParallel benchmarks a 90/10 read/write mix across shard
// counts.
func BenchmarkStoreParallel(b *testing.B) {
	for _, shards := range []int{1, 16, 64, 256} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			store := memory.New(memory.WithShards(shards))
			keys := prefillStore(store, 10000)

			b.ResetTimer()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					key := keys[i%len(keys)]
					if i%10 == 0 {
						store.Set(key, "updated")
					} else {
						store.Get(key)
					}
					i++
				}
			})
		})
	}
}

// BenchmarkStoreDeleteVersion benchmarks the generation-checked delete used
// by supersede mode.
func BenchmarkStoreDeleteVersion(b *testing.B) {
	store := memory.New()
	keys := make([]string, b.N)
	versions := make([]uint64, b.N)
	for i := range keys {
		keys[i] = "bench:" + strconv.Itoa(i)
		versions[i] = store.Set(keys[i], "v")
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		store.DeleteVersion(keys[i], versions[i])
	}
}
