// Package stream is the capability contract between liquid stream hosts and
// their clients
//
// A host supplies liquids to a capacity-limited set of clients; each client
// tracks the hosts it is linked with. Both sides must agree on a link, so
// links are made and broken through Link and Unlink, which update both sets.
package stream

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/tile"
)

// Unlimited is the connection cap and accepted amount meaning "no limit"
const Unlimited = -1

var (
	ErrHostFull       = errors.New("stream host has no free client slot")
	ErrClientRejected = errors.New("stream client rejected the connection")
)

// Node is anything that takes part in a stream network
type Node interface {
	Pos() tile.Pos
}

// Client receives liquids from hosts
type Client interface {
	Node

	// ReadStream accepts amount of l delivered by host
	ReadStream(host Host, l *liquid.Liquid, amount float64)

	// AcceptedAmount is the most of l the client takes right now
	// Negative means any amount
	AcceptedAmount(host Host, l *liquid.Liquid) float64

	// OnRequirementUpdated fires when Requirements changes
	OnRequirementUpdated() *Delegate[Client]

	// Requirements lists wanted liquids, nil means any
	Requirements() []*liquid.Liquid

	// Connect and Disconnect may be called from another building's update
	Connect(host Host)
	Disconnect(host Host)

	// ConnectedHosts is the live set of linked host positions
	ConnectedHosts() *ConnSet

	// MaxHostConnection is the link cap, Unlimited for none
	MaxHostConnection() int

	ClientColor() tcell.Color
}

// ConnectionAcceptor lets a client replace the default acceptance rule
type ConnectionAcceptor interface {
	AcceptConnection(host Host) bool
}

// Host supplies liquids to clients
type Host interface {
	Node

	ConnectClient(c Client)
	DisconnectClient(c Client)

	// ConnectedClients is the live set of linked client positions
	ConnectedClients() *ConnSet

	// MaxClientConnection is the link cap, Unlimited for none
	MaxClientConnection() int

	HostColor() tcell.Color
}

// IsConnectedWith reports whether c lists host among its hosts
func IsConnectedWith(c Client, host Host) bool {
	return c.ConnectedHosts().Contains(host.Pos())
}

// CanHaveMoreHostConnection reports whether c is below its host cap
func CanHaveMoreHostConnection(c Client) bool {
	limit := c.MaxHostConnection()
	if limit == Unlimited {
		return true
	}
	return c.ConnectedHosts().Len() < limit
}

// HostConnectionNumber returns how many hosts c is linked with
func HostConnectionNumber(c Client) int {
	return c.ConnectedHosts().Len()
}

// AcceptConnection asks c whether host may link with it
// Defaults to CanHaveMoreHostConnection unless c implements ConnectionAcceptor
func AcceptConnection(c Client, host Host) bool {
	if a, ok := c.(ConnectionAcceptor); ok {
		return a.AcceptConnection(host)
	}
	return CanHaveMoreHostConnection(c)
}

// CanHaveMoreClientConnection reports whether h is below its client cap
func CanHaveMoreClientConnection(h Host) bool {
	limit := h.MaxClientConnection()
	if limit == Unlimited {
		return true
	}
	return h.ConnectedClients().Len() < limit
}

// Link connects host and c on both sides
// Each side's slot is claimed under its set's lock, so concurrent links never
// push a set past its cap. Nothing changes when either side refuses; linking
// twice is a no-op and a half link is completed.
func Link(host Host, c Client) error {
	if IsConnectedWith(c, host) && host.ConnectedClients().Contains(c.Pos()) {
		return nil
	}
	clients := host.ConnectedClients()
	added, ok := clients.AddIfBelow(c.Pos(), host.MaxClientConnection())
	if !ok {
		return ErrHostFull
	}
	if !claimHostSlot(c, host) {
		if added {
			clients.Remove(c.Pos())
		}
		return ErrClientRejected
	}
	host.ConnectClient(c)
	c.Connect(host)
	return nil
}

// claimHostSlot records host in c's set if c admits it
// A ConnectionAcceptor decides alone; otherwise the host cap applies
func claimHostSlot(c Client, host Host) bool {
	hosts := c.ConnectedHosts()
	a, custom := c.(ConnectionAcceptor)
	if !custom {
		_, ok := hosts.AddIfBelow(host.Pos(), c.MaxHostConnection())
		return ok
	}
	if hosts.Contains(host.Pos()) {
		return true
	}
	if !a.AcceptConnection(host) {
		return false
	}
	hosts.Add(host.Pos())
	return true
}

// Unlink disconnects host and c on both sides
func Unlink(host Host, c Client) {
	c.Disconnect(host)
	host.DisconnectClient(c)
}

// Accepts reports whether c wants l at all, ignoring capacity
func Accepts(c Client, l *liquid.Liquid) bool {
	reqs := c.Requirements()
	if reqs == nil {
		return true
	}
	for _, r := range reqs {
		if r == l {
			return true
		}
	}
	return false
}

// Offer delivers up to available of l from host to c and returns the amount
// delivered. A negative accepted amount means no limit
func Offer(host Host, c Client, l *liquid.Liquid, available float64) float64 {
	if available <= 0 || !Accepts(c, l) {
		return 0
	}
	amount := available
	if accepted := c.AcceptedAmount(host, l); accepted >= 0 {
		amount = min(amount, accepted)
	}
	if amount <= 0 {
		return 0
	}
	c.ReadStream(host, l, amount)
	return amount
}
