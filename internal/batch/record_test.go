package batch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRecordDeviceKeyIsReserved(t *testing.T) {
	rec := Record{Device: "/dev/usbtmc0"}
	res := rec.Add("device", "x", false)

	assert.Equal(t, "device_", res.Key)
	assert.Equal(t, "/dev/usbtmc0", rec.Responses()[DeviceKey])
	assert.Equal(t, "x", rec.Responses()["device_"])
}

func TestRecordJSONKeepsOrder(t *testing.T) {
	rec := Record{Device: "/dev/usbtmc0"}
	rec.Add("*IDN?", "ACME,Model1,SN1,1.0", false)
	rec.Add("MEAS:VOLT?", "1.25", false)
	rec.Add("*IDN?", "ACME,Model1,SN1,1.0", false)

	out, err := json.Marshal([]Record{rec})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"device":"/dev/usbtmc0","*IDN?":"ACME,Model1,SN1,1.0","MEAS:VOLT?":"1.25","*IDN?_":"ACME,Model1,SN1,1.0"}]`,
		string(out))
	assert.Equal(t,
		`{"device":"/dev/usbtmc0","*IDN?":"ACME,Model1,SN1,1.0","MEAS:VOLT?":"1.25","*IDN?_":"ACME,Model1,SN1,1.0"}`,
		string(out[1:len(out)-1]))
}

func TestRecordJSONIncludesError(t *testing.T) {
	rec := Record{Device: "/dev/ttyS0", Err: errors.New("permission denied")}

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"device":"/dev/ttyS0","error":"permission denied"}`, string(out))
}

func TestRecordYAMLKeepsOrder(t *testing.T) {
	rec := Record{Device: "/dev/usbtmc0"}
	rec.Add("SYST:ERR?", `0,"No error"`, false)
	rec.Add("*OPC?", "1", false)

	out, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, "device: /dev/usbtmc0\nSYST:ERR?: 0,\"No error\"\n'*OPC?': \"1\"\n", string(out))
}

func TestReachable(t *testing.T) {
	partial := Record{Device: "/dev/usbtmc1", Err: errors.New("read failed")}
	partial.Add("*IDN?", "ACME", false)

	records := []Record{
		{Device: "/dev/usbtmc0"},
		{Device: "/dev/lp0", Err: errors.New("unsupported")},
		partial,
	}

	got := Reachable(records)
	require.Len(t, got, 2)
	assert.Equal(t, "/dev/usbtmc0", got[0].Device)
	assert.Equal(t, "/dev/usbtmc1", got[1].Device)
}
