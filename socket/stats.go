package socket

import "github.com/barepipe/barepipe/jsonutil"

// Stats is a point-in-time snapshot of a socket's pipe-set, used for
// introspection/logging. It is not part of the wire-visible API.
type Stats struct {
	Peers   int // len(InPipes) == len(OutPipes)
	Active  int // ready prefix length
	Current int // next round-robin index
}

// Stats snapshots b's pipe-set.
func (b *Base) Stats() Stats {
	return Stats{
		Peers:   len(b.InPipes),
		Active:  b.Active,
		Current: b.Current,
	}
}

// ToJSON appends s as a JSON object.
func (s Stats) ToJSON(dst []byte) []byte {
	dst = append(dst, `{"peers":`...)
	dst = jsonutil.Int(dst, s.Peers)
	dst = append(dst, `,"active":`...)
	dst = jsonutil.Int(dst, s.Active)
	dst = append(dst, `,"current":`...)
	dst = jsonutil.Int(dst, s.Current)
	return append(dst, '}')
}

// FromJSON populates s from a JSON object built by ToJSON, using
// buger/jsonparser (via jsonutil) rather than encoding/json.
func (s *Stats) FromJSON(src []byte) error {
	return jsonutil.ObjectEach(src, func(key, val []byte) error {
		n, err := jsonutil.UnInt(val)
		if err != nil {
			return err
		}
		switch jsonutil.S(key) {
		case "peers":
			s.Peers = n
		case "active":
			s.Active = n
		case "current":
			s.Current = n
		}
		return nil
	})
}
