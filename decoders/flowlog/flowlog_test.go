package flowlog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahetianjali/flow-low-parser/lookup"
)

var testProtocols = lookup.ProtocolTable{
	1:  "icmp",
	6:  "tcp",
	17: "udp",
}

const validLine = "2 123456789012 eni-1234abcd 10.0.1.201 198.51.100.2 1024 443 6 10 500 100 200 ACCEPT OK"

func TestDecodeRecordValid(t *testing.T) {
	rec, err := DecodeRecord(validLine, testProtocols)
	require.NoError(t, err)

	assert.Equal(t, &Record{
		Version:     "2",
		AccountID:   "123456789012",
		InterfaceID: "eni-1234abcd",
		SrcAddr:     "10.0.1.201",
		DstAddr:     "198.51.100.2",
		SrcPort:     1024,
		DstPort:     443,
		Protocol:    6,
		Packets:     10,
		Bytes:       500,
		Start:       100,
		End:         200,
		Action:      "ACCEPT",
		LogStatus:   "OK",
	}, rec)
}

func TestDecodeRecordIPv6(t *testing.T) {
	line := strings.Replace(validLine, "10.0.1.201", "2001:db8::1", 1)
	rec, err := DecodeRecord(line, testProtocols)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", rec.SrcAddr)
}

// each case breaks exactly one rule of the valid baseline
func TestDecodeRecordRules(t *testing.T) {
	replace := func(old, new string) string {
		return strings.Replace(validLine, old, new, 1)
	}

	cases := []struct {
		name   string
		line   string
		reason string
	}{
		{"thirteen fields", strings.TrimSuffix(validLine, " OK"), ReasonFieldCount},
		{"fifteen fields", validLine + " extra", ReasonFieldCount},
		{"empty line", "", ReasonFieldCount},
		{"version", replace("2 ", "3 "), ReasonVersion},
		{"account id short", replace("123456789012", "12345"), ReasonAccountID},
		{"account id non digit", replace("123456789012", "12345678901a"), ReasonAccountID},
		{"interface id prefix", replace("eni-1234abcd", "abc-1234abcd"), ReasonInterfaceID},
		{"interface id length", replace("eni-1234abcd", "eni-1234abcdef"), ReasonInterfaceID},
		{"src addr", replace("10.0.1.201", "10.0.1.256"), ReasonIPAddress},
		{"dst addr", replace("198.51.100.2", "not-an-ip"), ReasonIPAddress},
		{"src port", replace("1024 443", "70000 443"), ReasonPort},
		{"dst port", replace("1024 443", "1024 -1"), ReasonPort},
		{"dst port non numeric", replace("1024 443", "1024 https"), ReasonPort},
		{"unknown protocol", replace(" 6 10 500", " 99 10 500"), ReasonProtocol},
		{"non numeric protocol", replace(" 6 10 500", " tcp 10 500"), ReasonProtocol},
		{"negative packets", replace("10 500", "-1 500"), ReasonCounters},
		{"non numeric bytes", replace("10 500", "10 x"), ReasonCounters},
		{"negative start", replace("100 200", "-100 200"), ReasonTimestamps},
		{"end before start", replace("100 200", "200 100"), ReasonTimestamps},
		{"non numeric end", replace("100 200", "100 later"), ReasonTimestamps},
		{"action", replace("ACCEPT", "DROP"), ReasonAction},
		{"log status", replace("OK", "FAIL"), ReasonLogStatus},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec, err := DecodeRecord(c.line, testProtocols)
			require.Error(t, err)
			assert.Nil(t, rec)

			var recErr *RecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, c.reason, recErr.Reason)
		})
	}
}

func TestDecodeRecordEndEqualsStart(t *testing.T) {
	line := strings.Replace(validLine, "100 200", "100 100", 1)
	_, err := DecodeRecord(line, testProtocols)
	assert.NoError(t, err)
}

func TestDecodeRecordExtraWhitespace(t *testing.T) {
	line := "  " + strings.Join(strings.Fields(validLine), "   ") + " "
	_, err := DecodeRecord(line, testProtocols)
	assert.NoError(t, err)
}

func TestRecordErrorMessage(t *testing.T) {
	err := &RecordError{Reason: ReasonVersion}
	assert.Equal(t, "Invalid version", err.Error())

	wrapped := &RecordError{Reason: ReasonPort, Err: errors.New("port 70000 out of range")}
	assert.Contains(t, wrapped.Error(), "Invalid port number")
	assert.Contains(t, wrapped.Error(), "70000")
}
