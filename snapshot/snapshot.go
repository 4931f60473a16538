// Package snapshot saves and restores a world with its buildings, animation
// states and stream links
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/lixenwraith/cyberio/registry"
	"github.com/lixenwraith/cyberio/stream"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// Version is the snapshot format written by Capture
const Version = 1

var ErrVersion = errors.New("unsupported snapshot version")

// Persistent is implemented by buildings with state beyond their position
// revision is the snapshot version the data was written with
type Persistent interface {
	SaveData() ([]byte, error)
	LoadData(data []byte, revision int) error
}

// Animator is implemented by buildings exposing their animation state
type Animator interface {
	AniState() string
	SetAniState(name string) bool
}

// Lookup resolves a block type by name; registry.GetBlock fits
type Lookup func(name string) (registry.BlockType, bool)

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Buildings []BuildingV1 `json:"buildings"`
	Links     []LinkV1     `json:"links"`
}

type BuildingV1 struct {
	Block string    `json:"block"`
	Pos   tile.Pos  `json:"pos"`
	Team  tile.Team `json:"team"`
	State string    `json:"state,omitempty"`
	Data  []byte    `json:"data,omitempty"`
}

type LinkV1 struct {
	Host   tile.Pos `json:"host"`
	Client tile.Pos `json:"client"`
}

// Capture records every building in placement order and every stream link
func Capture(w *world.World) (SnapshotV1, error) {
	snap := SnapshotV1{Header: Header{Version: Version, Tick: w.Tick()}}
	var errs []error
	w.Each(func(b world.Building) {
		rec := BuildingV1{Block: b.BlockName(), Pos: b.Pos(), Team: b.Team()}
		if a, ok := b.(Animator); ok {
			rec.State = a.AniState()
		}
		if p, ok := b.(Persistent); ok {
			data, err := p.SaveData()
			if err != nil {
				errs = append(errs, fmt.Errorf("save %s at %v: %w", rec.Block, rec.Pos, err))
				return
			}
			rec.Data = data
		}
		snap.Buildings = append(snap.Buildings, rec)

		if h, ok := b.(stream.Host); ok {
			for _, c := range h.ConnectedClients().Positions() {
				snap.Links = append(snap.Links, LinkV1{Host: b.Pos(), Client: c})
			}
		}
	})
	return snap, errors.Join(errs...)
}

// Restore places the captured buildings into w and relinks them
// w is expected to be empty; every problem is reported, not just the first
func Restore(w *world.World, snap SnapshotV1, lookup Lookup) error {
	if snap.Header.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, snap.Header.Version)
	}
	w.SetTick(snap.Header.Tick)

	var errs []error
	for _, rec := range snap.Buildings {
		bt, ok := lookup(rec.Block)
		if !ok {
			errs = append(errs, fmt.Errorf("restore %v: unknown block %q", rec.Pos, rec.Block))
			continue
		}
		b := bt.Create(w, rec.Pos, rec.Team)
		if p, ok := b.(Persistent); ok && len(rec.Data) > 0 {
			if err := p.LoadData(rec.Data, snap.Header.Version); err != nil {
				errs = append(errs, fmt.Errorf("restore %s at %v: %w", rec.Block, rec.Pos, err))
				continue
			}
		}
		if err := w.Place(b); err != nil {
			errs = append(errs, err)
			continue
		}
		if a, ok := b.(Animator); ok && rec.State != "" && !a.SetAniState(rec.State) {
			w.Logger().Printf("restore %s at %v: state %q not available", rec.Block, rec.Pos, rec.State)
		}
	}

	for _, l := range snap.Links {
		if err := relink(w, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func relink(w *world.World, l LinkV1) error {
	hb, _ := w.Building(l.Host)
	cb, _ := w.Building(l.Client)
	h, ok := hb.(stream.Host)
	if !ok {
		return fmt.Errorf("relink %v: no stream host", l.Host)
	}
	c, ok := cb.(stream.Client)
	if !ok {
		return fmt.Errorf("relink %v: no stream client", l.Client)
	}
	if err := stream.Link(h, c); err != nil {
		return fmt.Errorf("relink %v -> %v: %w", l.Host, l.Client, err)
	}
	return nil
}

// Encode writes snap as a JSON header line followed by a gob body, zstd compressed
func Encode(out io.Writer, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a stream written by Encode
func Decode(in io.Reader) (SnapshotV1, error) {
	var snap SnapshotV1
	dec, err := zstd.NewReader(in)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return snap, fmt.Errorf("header: %w", err)
	}
	if h.Version != Version {
		return snap, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader returns only the header line of a snapshot file
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	return h, nil
}

// Write saves snap to path, creating parent directories
func Write(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read loads a snapshot file written by Write
func Read(path string) (SnapshotV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer f.Close()
	return Decode(f)
}
