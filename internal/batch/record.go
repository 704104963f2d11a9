package batch

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// DeviceKey is the record field holding the device path. A query whose text
// collides with it is disambiguated like any repeated query.
const DeviceKey = "device"

// Result is the outcome of one command on one device.
type Result struct {
	// Key is the command text, suffixed with "_" as often as needed to keep
	// it unique within the record.
	Key      string
	Command  string
	Response string
	TimedOut bool
}

// Record collects the ordered results for one device.
type Record struct {
	Device  string
	Results []Result
	// Err is set when the device could not be resolved or a query failed.
	// Results gathered before the failure are kept.
	Err error
}

// Add stores response under command, appending "_" to the key until it does
// not collide with an earlier result.
func (r *Record) Add(command, response string, timedOut bool) Result {
	key := command
	for r.has(key) {
		key += "_"
	}
	res := Result{Key: key, Command: command, Response: response, TimedOut: timedOut}
	r.Results = append(r.Results, res)
	return res
}

func (r *Record) has(key string) bool {
	if key == DeviceKey {
		return true
	}
	_, ok := r.Get(key)
	return ok
}

// Get returns the result stored under key.
func (r *Record) Get(key string) (Result, bool) {
	for _, res := range r.Results {
		if res.Key == key {
			return res, true
		}
	}
	return Result{}, false
}

// Responses returns the key to response mapping, including the device path.
func (r *Record) Responses() map[string]string {
	m := make(map[string]string, len(r.Results)+1)
	m[DeviceKey] = r.Device
	for _, res := range r.Results {
		m[res.Key] = res.Response
	}
	return m
}

// MarshalJSON renders the record as an object whose keys keep query order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writePair := func(k, v string) error {
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}

	if err := writePair(DeviceKey, r.Device); err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		buf.WriteByte(',')
		if err := writePair(res.Key, res.Response); err != nil {
			return nil, err
		}
	}
	if r.Err != nil {
		buf.WriteByte(',')
		if err := writePair("error", r.Err.Error()); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the record as a mapping whose keys keep query order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	addPair := func(k, v string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}

	addPair(DeviceKey, r.Device)
	for _, res := range r.Results {
		addPair(res.Key, res.Response)
	}
	if r.Err != nil {
		addPair("error", r.Err.Error())
	}
	return node, nil
}

// Reachable drops records of devices that failed before answering anything,
// such as paths that could not be resolved or opened.
func Reachable(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Err != nil && len(rec.Results) == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}
