// Package rational provides an immutable exact rational number used for
// exact-arithmetic mesh attributes such as vertex positions.
package rational

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidRational is returned when text cannot be parsed as a rational.
var ErrInvalidRational = errors.New("invalid rational")

// Rational is an exact rational number. The zero value is 0.
// Values are immutable: every arithmetic method returns a new Rational.
type Rational struct {
	r *big.Rat
}

// New returns num/den. It panics if den is zero.
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return Rational{r: big.NewRat(num, den)}
}

// FromInt returns the integer i as a rational.
func FromInt(i int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(i)}
}

// FromFloat returns the exact value of f. Non-finite values yield 0.
func FromFloat(f float64) Rational {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return Rational{}
	}
	return Rational{r: r}
}

// Parse parses "a/b", "a" or a decimal string.
func Parse(s string) (Rational, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, fmt.Errorf("%w: %q", ErrInvalidRational, s)
	}
	return Rational{r: r}, nil
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Add returns x+y.
func (x Rational) Add(y Rational) Rational {
	return Rational{r: new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub returns x-y.
func (x Rational) Sub(y Rational) Rational {
	return Rational{r: new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul returns x*y.
func (x Rational) Mul(y Rational) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), y.rat())}
}

// Div returns x/y. It panics if y is zero.
func (x Rational) Div(y Rational) Rational {
	if y.IsZero() {
		panic("rational: division by zero")
	}
	return Rational{r: new(big.Rat).Quo(x.rat(), y.rat())}
}

// Neg returns -x.
func (x Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(x.rat())}
}

// Half returns x/2.
func (x Rational) Half() Rational {
	return Rational{r: new(big.Rat).Quo(x.rat(), big.NewRat(2, 1))}
}

// Mean returns (a+b)/2.
func Mean(a, b Rational) Rational {
	return a.Add(b).Half()
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// Equal reports whether x and y denote the same number.
func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Rational) Sign() int {
	return x.rat().Sign()
}

// IsZero reports whether x == 0.
func (x Rational) IsZero() bool {
	return x.Sign() == 0
}

// Float64 returns the nearest float64 value of x.
func (x Rational) Float64() float64 {
	f, _ := x.rat().Float64()
	return f
}

// String returns x in the form "a/b" (or "a" for integers).
func (x Rational) String() string {
	return x.rat().RatString()
}

// MarshalText implements encoding.TextMarshaler.
func (x Rational) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Rational) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}
