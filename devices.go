package ambiclimate

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// deviceInfo is one record from the discovery endpoint's data array.
type deviceInfo struct {
	RoomName     string
	LocationName string
	DeviceID     string
}

// Device is a handle binding a room/location identifier pair to the owning
// Client. Handles hold no state beyond their identifiers and are only valid
// while the owning Client is.
type Device struct {
	// RoomName identifies the device's room.
	RoomName string
	// LocationName identifies the device's location.
	LocationName string
	// DeviceID is the opaque vendor device identifier.
	DeviceID string

	client *Client
}

// Comfort feedback values accepted by SetComfortFeedback.
const (
	FeedbackTooHot      = "too_hot"
	FeedbackTooWarm     = "too_warm"
	FeedbackBitWarm     = "bit_warm"
	FeedbackComfortable = "comfortable"
	FeedbackBitCold     = "bit_cold"
	FeedbackTooCold     = "too_cold"
	FeedbackFreezing    = "freezing"
)

var validComfortFeedback = map[string]bool{
	FeedbackTooHot:      true,
	FeedbackTooWarm:     true,
	FeedbackBitWarm:     true,
	FeedbackComfortable: true,
	FeedbackBitCold:     true,
	FeedbackTooCold:     true,
	FeedbackFreezing:    true,
}

// FindDevices fetches the account's device list and caches it on the Client.
// Returns true if at least one device was found. A failed request is treated
// as an empty list.
func (c *Client) FindDevices(ctx context.Context) bool {
	res := c.request(ctx, "devices", nil, c.retries, true)

	var infos []deviceInfo
	if res != nil {
		if data, ok := res.Body["data"].([]any); ok {
			for _, entry := range data {
				record, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				infos = append(infos, deviceInfo{
					RoomName:     stringField(record, "room_name"),
					LocationName: stringField(record, "location_name"),
					DeviceID:     stringField(record, "device_id"),
				})
			}
		}
	}

	c.devicesMu.Lock()
	c.devices = infos
	c.devicesMu.Unlock()

	return len(infos) > 0
}

// Devices returns handles for the devices cached by the last FindDevices
// call. No network call is made; the result is empty until a discovery call
// has succeeded.
func (c *Client) Devices() []*Device {
	c.devicesMu.RLock()
	defer c.devicesMu.RUnlock()

	devices := make([]*Device, 0, len(c.devices))
	for _, info := range c.devices {
		devices = append(devices, &Device{
			RoomName:     info.RoomName,
			LocationName: info.LocationName,
			DeviceID:     info.DeviceID,
			client:       c,
		})
	}
	return devices
}

// request issues a device-scoped call. The room and location identifiers are
// injected into the parameters; device-level calls always use GET.
func (d *Device) request(ctx context.Context, command string, params url.Values) *Result {
	if params == nil {
		params = url.Values{}
	}
	params.Set("room_name", d.RoomName)
	params.Set("location_name", d.LocationName)
	return d.client.request(ctx, command, params, d.client.retries, true)
}

// boolRequest collapses a device-scoped call to its boolean outcome.
func (d *Device) boolRequest(ctx context.Context, command string, params url.Values) bool {
	res := d.request(ctx, command, params)
	return res != nil && res.OK
}

// SetPowerOff powers off the AC.
func (d *Device) SetPowerOff(ctx context.Context, multiple bool) bool {
	return d.boolRequest(ctx, "device/power/off", multipleParam(multiple))
}

// SetComfortMode enables Comfort mode on the AC.
func (d *Device) SetComfortMode(ctx context.Context, multiple bool) bool {
	return d.boolRequest(ctx, "device/mode/comfort", multipleParam(multiple))
}

// SetComfortFeedback sends user feedback for Comfort mode. The value must be
// one of the Feedback constants; anything else returns
// ErrInvalidComfortFeedback without touching the network.
func (d *Device) SetComfortFeedback(ctx context.Context, value string) (bool, error) {
	if !validComfortFeedback[value] {
		err := fmt.Errorf("%w: %q", ErrInvalidComfortFeedback, value)
		d.client.logError(ctx, "invalid comfort feedback", "user/feedback", err)
		return false, err
	}

	params := url.Values{}
	params.Set("value", value)
	return d.boolRequest(ctx, "user/feedback", params), nil
}

// SetAwayModeTemperatureLower enables Away mode with a lower temperature
// bound.
func (d *Device) SetAwayModeTemperatureLower(ctx context.Context, value float64, multiple bool) bool {
	return d.boolRequest(ctx, "device/mode/away_temperature_lower", valueParams(value, multiple))
}

// SetAwayModeTemperatureUpper enables Away mode with an upper temperature
// bound.
func (d *Device) SetAwayModeTemperatureUpper(ctx context.Context, value float64, multiple bool) bool {
	return d.boolRequest(ctx, "device/mode/away_temperature_upper", valueParams(value, multiple))
}

// SetAwayHumidityUpper enables Away mode with an upper humidity bound.
func (d *Device) SetAwayHumidityUpper(ctx context.Context, value float64, multiple bool) bool {
	return d.boolRequest(ctx, "device/mode/away_humidity_upper", valueParams(value, multiple))
}

// SetTemperatureMode enables Temperature mode with the given target.
func (d *Device) SetTemperatureMode(ctx context.Context, value float64, multiple bool) bool {
	return d.boolRequest(ctx, "device/mode/temperature", valueParams(value, multiple))
}

// GetSensorTemperature returns the latest sensor temperature reading.
// ok is false when the request failed or the response carried no value.
func (d *Device) GetSensorTemperature(ctx context.Context) (value float64, ok bool) {
	return d.sensorValue(ctx, "device/sensor/temperature")
}

// GetSensorHumidity returns the latest sensor humidity reading.
// ok is false when the request failed or the response carried no value.
func (d *Device) GetSensorHumidity(ctx context.Context) (value float64, ok bool) {
	return d.sensorValue(ctx, "device/sensor/humidity")
}

// GetSensorMode returns the device's current working mode.
// ok is false when the request failed or the response carried no mode.
func (d *Device) GetSensorMode(ctx context.Context) (mode string, ok bool) {
	res := d.request(ctx, "device/mode", nil)
	if res == nil {
		return "", false
	}
	mode, ok = res.Body["mode"].(string)
	return mode, ok
}

// GetIrFeature returns the appliance's IR feature description unmodified.
// ok is false when the request failed.
func (d *Device) GetIrFeature(ctx context.Context) (map[string]any, bool) {
	res := d.request(ctx, "device/ir_feature", nil)
	if res == nil {
		return nil, false
	}
	return res.Body, true
}

func (d *Device) sensorValue(ctx context.Context, command string) (float64, bool) {
	res := d.request(ctx, command, nil)
	if res == nil {
		return 0, false
	}
	value, ok := res.Body["value"].(float64)
	return value, ok
}

func multipleParam(multiple bool) url.Values {
	params := url.Values{}
	params.Set("multiple", strconv.FormatBool(multiple))
	return params
}

func valueParams(value float64, multiple bool) url.Values {
	params := multipleParam(multiple)
	params.Set("value", strconv.FormatFloat(value, 'f', -1, 64))
	return params
}

func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}
