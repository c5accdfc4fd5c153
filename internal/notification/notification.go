package notification

// Push is a single push notification addressed to one or more devices.
type Push struct {
	Title string
	Body  string
	Data  map[string]any
}

// StringData flattens Data into the string map FCM expects.
func (p Push) StringData() map[string]string {
	if len(p.Data) == 0 {
		return nil
	}
	out := make(map[string]string, len(p.Data))
	for k, v := range p.Data {
		out[k] = fmtValue(v)
	}
	return out
}
