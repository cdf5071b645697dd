package common

// EventDeviceListUpdated is emitted when the server signals that its device
// list has changed, for example after hardware hot-plug.  Consumers should
// re-enumerate devices: indexes are positional and may have shifted.
type EventDeviceListUpdated struct{}

// EventDisconnected is emitted when the connection to the server is torn
// down, either deliberately or through an I/O error.
type EventDisconnected struct {
	Err error
}
