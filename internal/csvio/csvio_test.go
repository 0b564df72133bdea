package csvio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Valid(t *testing.T) {
	in := "\xEF\xBB\xBFSerial_Number, name ,location,status,notes\r\n" +
		"SN-1,Lobby,\"Hall A, door 2\",ACTIVE,\r\n" +
		"\r\n" +
		"SN-2,\"Gate \"\"B\"\"\",,maintenance,\"line one\nline two\"\n" +
		"SN-3,Food court,,,\n"

	recs, err := Read(strings.NewReader(in), KioskHeader, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, "Hall A, door 2", recs[0].Get("location"))

	assert.Equal(t, 4, recs[1].Line)
	assert.Equal(t, `Gate "B"`, recs[1].Get("name"))
	assert.Equal(t, "line one\nline two", recs[1].Get("notes"))

	// quoted newline pushes the next record down a line
	assert.Equal(t, 6, recs[2].Line)
	assert.Equal(t, "", recs[2].Get("status"))
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), KioskHeader, 0)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Read(strings.NewReader("serial_number,name,location,status,notes\n\n"), KioskHeader, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRead_BadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("serial,name\nSN-1,Lobby\n"), KioskHeader, 0)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Line)
	assert.Contains(t, errs[0].Message, "serial_number,name,location,status,notes")
}

func TestRead_FieldCount(t *testing.T) {
	in := "kiosk_serial,title,description,status,priority\n" +
		"SN-1,Jam,,OPEN,HIGH\n" +
		"SN-2,Too few\n" +
		"SN-3,Too,many,fields,in,row\n"

	recs, err := Read(strings.NewReader(in), TicketImportHeader, 0)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, RowError{Line: 3, Message: "expected 5 fields, got 2"}, errs[0])
	assert.Equal(t, 4, errs[1].Line)
}

func TestRead_BadQuote(t *testing.T) {
	in := "serial_number,name,location,status,notes\n" +
		"SN-0,Ok,,,\n" +
		"SN-1,\"unterminated,,,\n"

	recs, err := Read(strings.NewReader(in), KioskHeader, 0)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, 3, errs[len(errs)-1].Line)
	require.Len(t, recs, 1)
	assert.Equal(t, "SN-0", recs[0].Get("serial_number"))
}

func TestRead_WhitespaceLine(t *testing.T) {
	in := "serial_number,name,location,status,notes\r\n" +
		"SN-1,Lobby,,,\r\n" +
		"   \r\n" +
		"\t\n" +
		"SN-2,Gate,,,\r\n"

	recs, err := Read(strings.NewReader(in), KioskHeader, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 5, recs[1].Line)
}

func TestErrors_Sort(t *testing.T) {
	errs := Errors{
		{Line: 4, Message: "expected 5 fields, got 2"},
		{Line: 2, Column: "status", Message: "bad"},
		{Line: 4, Column: "name", Message: "second on line 4"},
		{Line: 2, Column: "name", Message: "second on line 2"},
	}
	errs.Sort()

	assert.Equal(t, []int{2, 2, 4, 4}, []int{errs[0].Line, errs[1].Line, errs[2].Line, errs[3].Line})
	assert.Equal(t, "status", errs[0].Column)
	assert.Equal(t, "", errs[2].Column)
}

func TestRead_MaxRows(t *testing.T) {
	in := "serial_number,name,location,status,notes\n" +
		"SN-1,A,,,\n" +
		"SN-2,B,,,\n" +
		"SN-3,C,,,\n"

	recs, err := Read(strings.NewReader(in), KioskHeader, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = Read(strings.NewReader(in), KioskHeader, 2)
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, RowError{Line: 4, Message: "file exceeds 2 rows"}, errs[0])
	assert.Len(t, recs, 2)
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Err())

	errs.Add(3, "status", "must be one of ACTIVE, INACTIVE, MAINTENANCE")
	assert.EqualError(t, errs.Err(), "csv: line 3: status: must be one of ACTIVE, INACTIVE, MAINTENANCE")

	errs.Add(5, "", "duplicate serial number")
	assert.EqualError(t, errs, "csv: 2 errors, first: line 3: status: must be one of ACTIVE, INACTIVE, MAINTENANCE")
	assert.Equal(t, "line 5: duplicate serial number", errs[1].String())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, KioskHeader)
	require.NoError(t, err)

	require.NoError(t, w.Write([]string{"SN-1", "Lobby", "Hall A, door 2", "ACTIVE", ""}))
	require.NoError(t, w.Write([]string{"SN-2", `Gate "B"`, " leading", "INACTIVE", "two\nlines"}))
	require.NoError(t, w.Flush())

	want := "serial_number,name,location,status,notes\n" +
		"SN-1,Lobby,\"Hall A, door 2\",ACTIVE,\n" +
		"SN-2,\"Gate \"\"B\"\"\",\" leading\",INACTIVE,\"two\nlines\"\n"
	assert.Equal(t, want, buf.String())

	recs, err := Read(&buf, KioskHeader, 0)
	require.NoError(t, err)
	assert.Equal(t, "two\nlines", recs[1].Get("notes"))
}

func TestWriter_Quoting(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, []string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, w.Write([]string{`\.`, "\tx", `back\slash`}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "a,b,c\n\"\\.\",\"\tx\",back\\slash\n", buf.String())
}

func TestRead_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Read(iotest.ErrReader(boom), KioskHeader, 0)
	assert.ErrorIs(t, err, boom)

	var errs Errors
	assert.False(t, errors.As(err, &errs))
}
