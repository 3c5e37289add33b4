// Package flowlog decodes AWS VPC Flow Log version 2 records from their
// fixed 14-field text layout.
package flowlog

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/bahetianjali/flow-low-parser/lookup"
)

// NumFields is the field count of the version 2 layout.
const NumFields = 14

// Validation reasons, one per field rule. The strings are part of the
// diagnostic contract and surface verbatim in logs.
const (
	ReasonFieldCount  = "Incorrect number of fields"
	ReasonVersion     = "Invalid version"
	ReasonAccountID   = "Invalid account ID"
	ReasonInterfaceID = "Invalid interface ID"
	ReasonIPAddress   = "Invalid IP address"
	ReasonPort        = "Invalid port number"
	ReasonProtocol    = "Invalid protocol"
	ReasonCounters    = "Invalid packets or bytes count"
	ReasonTimestamps  = "Invalid timestamps"
	ReasonAction      = "Invalid action"
	ReasonLogStatus   = "Invalid log status"
)

// RecordError reports why a record failed validation.
type RecordError struct {
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Err.Error())
	}
	return e.Reason
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Record is one decoded flow log line.
type Record struct {
	Version     string
	AccountID   string
	InterfaceID string
	SrcAddr     string
	DstAddr     string
	SrcPort     int
	DstPort     int
	Protocol    int
	Packets     int64
	Bytes       int64
	Start       int64
	End         int64
	Action      string
	LogStatus   string
}

// DecodeRecord splits one raw line on whitespace and applies the field rules
// in order, short-circuiting on the first violation. The protocol table is
// needed for the protocol-number rule and must be loaded by the caller.
func DecodeRecord(line string, protocols lookup.ProtocolTable) (*Record, error) {
	fields := strings.Fields(line)
	if len(fields) != NumFields {
		return nil, &RecordError{Reason: ReasonFieldCount}
	}

	rec := &Record{
		Version:     fields[0],
		AccountID:   fields[1],
		InterfaceID: fields[2],
		SrcAddr:     fields[3],
		DstAddr:     fields[4],
		Action:      fields[12],
		LogStatus:   fields[13],
	}

	if rec.Version != "2" {
		return nil, &RecordError{Reason: ReasonVersion}
	}
	if !isDigits(rec.AccountID) || len(rec.AccountID) != 12 {
		return nil, &RecordError{Reason: ReasonAccountID}
	}
	if !strings.HasPrefix(rec.InterfaceID, "eni-") || len(rec.InterfaceID) != 12 {
		return nil, &RecordError{Reason: ReasonInterfaceID}
	}
	if net.ParseIP(rec.SrcAddr) == nil || net.ParseIP(rec.DstAddr) == nil {
		return nil, &RecordError{Reason: ReasonIPAddress}
	}

	var err error
	if rec.SrcPort, err = parsePort(fields[5]); err != nil {
		return nil, &RecordError{Reason: ReasonPort, Err: err}
	}
	if rec.DstPort, err = parsePort(fields[6]); err != nil {
		return nil, &RecordError{Reason: ReasonPort, Err: err}
	}

	if rec.Protocol, err = strconv.Atoi(fields[7]); err != nil {
		return nil, &RecordError{Reason: ReasonProtocol, Err: err}
	}
	if !protocols.Known(rec.Protocol) {
		return nil, &RecordError{Reason: ReasonProtocol}
	}

	if rec.Packets, err = parseCount(fields[8]); err != nil {
		return nil, &RecordError{Reason: ReasonCounters, Err: err}
	}
	if rec.Bytes, err = parseCount(fields[9]); err != nil {
		return nil, &RecordError{Reason: ReasonCounters, Err: err}
	}

	if !isDigits(fields[10]) || !isDigits(fields[11]) {
		return nil, &RecordError{Reason: ReasonTimestamps}
	}
	if rec.Start, err = strconv.ParseInt(fields[10], 10, 64); err != nil {
		return nil, &RecordError{Reason: ReasonTimestamps, Err: err}
	}
	if rec.End, err = strconv.ParseInt(fields[11], 10, 64); err != nil {
		return nil, &RecordError{Reason: ReasonTimestamps, Err: err}
	}
	if rec.End < rec.Start {
		return nil, &RecordError{Reason: ReasonTimestamps}
	}

	if rec.Action != "ACCEPT" && rec.Action != "REJECT" {
		return nil, &RecordError{Reason: ReasonAction}
	}
	switch rec.LogStatus {
	case "OK", "NODATA", "SKIPDATA":
	default:
		return nil, &RecordError{Reason: ReasonLogStatus}
	}

	return rec, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func parseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
