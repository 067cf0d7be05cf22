package decoder

import (
	"errors"
	"math"
	"strconv"

	"github.com/sokojh/phpserialize-go/value"
)

// decodeFloat parses the payload of a d:<float>; token. <float> additionally
// accepts the three sentinels INF, -INF, and NAN (case-sensitive), per §4.6.
func (d *dec) decodeFloat() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("d:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Float")
	}
	start := d.c.Offset()
	n := d.c.Index(';', -1)
	if n < 0 {
		return value.Value{}, newError(UnexpectedEnd, start, "Float: missing terminating ';'")
	}
	raw, err := d.c.Take(n)
	if err != nil {
		return value.Value{}, wrapCursorErr(err, start, "malformed Float")
	}
	if err := d.c.Expect(';'); err != nil {
		return value.Value{}, wrapCursorErr(err, d.c.Offset(), "malformed Float")
	}

	f, perr := parseFloatLiteral(raw)
	if perr != nil {
		return value.Value{}, newError(BadNumber, start, "bad Float literal %q: %s", raw, perr)
	}
	return value.Float(f), nil
}

// parseFloatLiteral parses raw as the payload of a d: token, honoring the
// three sentinel literals before falling back to strconv.ParseFloat for the
// usual decimal/scientific forms.
func parseFloatLiteral(raw []byte) (float64, error) {
	switch string(raw) {
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NAN":
		return math.NaN(), nil
	}
	// strconv.ParseFloat also accepts "inf", "nan", "Infinity" and hex
	// floats; only sign, digits, '.' and exponent bytes reach it here.
	for _, b := range raw {
		switch {
		case b >= '0' && b <= '9', b == '+', b == '-', b == '.', b == 'e', b == 'E':
		default:
			return 0, errors.New("not a decimal or scientific literal")
		}
	}
	return strconv.ParseFloat(string(raw), 64)
}
