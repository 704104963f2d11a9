package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/batch"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

const (
	colDevice   = "device"
	colCommand  = "command"
	colResponse = "response"

	colKind        = "kind"
	colDescription = "description"
	colUSBID       = "usbid"
	colSerial      = "serial"
	colProduct     = "product"

	cellPadding = 2
)

// column tracks the widest value seen so static tables never truncate.
type column struct {
	key   string
	title string
	width int
}

func newColumn(key, title string) *column {
	return &column{key: key, title: title, width: lipgloss.Width(title)}
}

func (c *column) fit(value string) {
	if w := lipgloss.Width(value); w > c.width {
		c.width = w
	}
}

func buildColumns(cols ...*column) []table.Column {
	out := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, table.NewColumn(c.key, c.title, c.width+cellPadding))
	}
	return out
}

func renderTable(w io.Writer, columns []table.Column, rows []table.Row) error {
	t := table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.DeviceStyle)
	_, err := fmt.Fprintln(w, t.View())
	return err
}

// writeTable renders one row per result. Devices that failed before any
// result get a single error row.
func writeTable(w io.Writer, records []batch.Record) error {
	device := newColumn(colDevice, "Device")
	command := newColumn(colCommand, "Command")
	response := newColumn(colResponse, "Response")

	var rows []table.Row
	addRow := func(dev, cmd string, value string, style *lipgloss.Style) {
		device.fit(dev)
		command.fit(cmd)
		response.fit(value)

		var cell any = value
		if style != nil {
			cell = table.NewStyledCell(value, *style)
		}
		rows = append(rows, table.NewRow(table.RowData{
			colDevice:   dev,
			colCommand:  cmd,
			colResponse: cell,
		}))
	}

	for _, rec := range records {
		for _, res := range rec.Results {
			if res.TimedOut {
				addRow(rec.Device, res.Key, TimedOutText, &styles.TimeoutStyle)
				continue
			}
			addRow(rec.Device, res.Key, res.Response, nil)
		}
		if rec.Err != nil {
			addRow(rec.Device, "", "error: "+rec.Err.Error(), &styles.ErrorStyle)
		}
	}

	return renderTable(w, buildColumns(device, command, response), rows)
}

// WriteDevices prints discovered devices, one path per line, or as a table
// with USB metadata when asTable is set.
func WriteDevices(w io.Writer, devices []*scpi.DeviceInfo, asTable bool) error {
	if !asTable {
		for _, d := range devices {
			if _, err := fmt.Fprintln(w, d.Path); err != nil {
				return err
			}
		}
		return nil
	}

	path := newColumn(colDevice, "Device")
	kind := newColumn(colKind, "Kind")
	desc := newColumn(colDescription, "Description")
	usbID := newColumn(colUSBID, "VID:PID")
	serial := newColumn(colSerial, "Serial")
	product := newColumn(colProduct, "Product")

	rows := make([]table.Row, 0, len(devices))
	for _, d := range devices {
		id := ""
		if d.IsUSB() {
			id = d.VendorID + ":" + d.ProductID
		}
		data := table.RowData{
			colDevice:      d.Path,
			colKind:        d.Kind.String(),
			colDescription: d.Description,
			colUSBID:       id,
			colSerial:      d.SerialNumber,
			colProduct:     d.Product,
		}
		path.fit(d.Path)
		kind.fit(d.Kind.String())
		desc.fit(d.Description)
		usbID.fit(id)
		serial.fit(d.SerialNumber)
		product.fit(d.Product)
		rows = append(rows, table.NewRow(data))
	}

	return renderTable(w, buildColumns(path, kind, desc, usbID, serial, product), rows)
}
