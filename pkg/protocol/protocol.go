package protocol

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

const (
	DefaultPrefix = "CANAA"

	timestampLayout = "20060102150405"
	suffixMin       = 100
	suffixMax       = 999
)

// Pattern matches protocols produced with DefaultPrefix.
var Pattern = regexp.MustCompile(`^CANAA-\d{14}-\d{3}$`)

// PatternFor returns the regexp matching protocols with the given prefix.
func PatternFor(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d{14}-\d{3}$`)
}

// ExistsFunc reports whether a protocol is already taken.
type ExistsFunc func(ctx context.Context, protocolo string) (bool, error)

// Generator produces protocols of the form PREFIX-YYYYMMDDHHMMSS-NNN.
type Generator struct {
	Prefix string
	// Now defaults to time.Now.
	Now func() time.Time
	// Suffix returns a value in [100, 999]. Defaults to a uniform random draw.
	Suffix func() int
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{Prefix: prefix}
}

func randomSuffix() int {
	return suffixMin + rand.Intn(suffixMax-suffixMin+1)
}

// Generate returns a new candidate protocol. Uniqueness is not checked.
func (g *Generator) Generate() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	suffix := randomSuffix
	if g.Suffix != nil {
		suffix = g.Suffix
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, now().Format(timestampLayout), suffix())
}

// Unique generates candidates until exists reports one as free. There is no
// attempt limit; the loop ends only on success, a lookup error, or ctx being
// done.
func (g *Generator) Unique(ctx context.Context, exists ExistsFunc) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := g.Generate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking protocol %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}
