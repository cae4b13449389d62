package benchmark

import (
	"net/http"
	"os"
	"testing"
)

// These benchmarks hit a running server. Point CADASTRO_BENCH_URL at it and
// CADASTRO_BENCH_PROTOCOLO at a registered protocol.
func target(b *testing.B) (string, string) {
	baseURL := os.Getenv("CADASTRO_BENCH_URL")
	protocolo := os.Getenv("CADASTRO_BENCH_PROTOCOLO")
	if baseURL == "" || protocolo == "" {
		b.Skip("set CADASTRO_BENCH_URL and CADASTRO_BENCH_PROTOCOLO to run")
	}
	return baseURL, protocolo
}

func get(b *testing.B, url string) {
	resp, err := http.Get(url)
	if err != nil {
		b.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b.Fatalf("GET %s: %d", url, resp.StatusCode)
	}
}

func BenchmarkLookup(b *testing.B) {
	baseURL, protocolo := target(b)

	b.Run("GET /consulta/{protocolo}", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			get(b, baseURL+"/consulta/"+protocolo)
		}
	})

	b.Run("GET /qrcode/{protocolo}", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			get(b, baseURL+"/qrcode/"+protocolo)
		}
	})

	b.Run("GET /cadastros", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			get(b, baseURL+"/cadastros?per_page=50")
		}
	})
}
