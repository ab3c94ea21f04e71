package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/infrared/pkg/syntax"
)

// SchemaVersion is written into every entry. Increment it when the
// encoded shape of syntax.Tree changes.
const SchemaVersion uint16 = 1

var (
	// ErrNilTree is returned when asked to encode a nil tree.
	ErrNilTree = errors.New("nil syntax tree")

	// ErrSchemaMismatch is returned when decoding an entry written with a
	// different SchemaVersion.
	ErrSchemaMismatch = errors.New("cache entry schema mismatch")

	// ErrUnknownCodec is returned by CodecFor for unsupported names.
	ErrUnknownCodec = errors.New("unknown cache format")

	// ErrInvalidText is returned by JSONCodec when node text is not valid
	// UTF-8 and so cannot be stored without loss.
	ErrInvalidText = errors.New("node text is not valid UTF-8")
)

// Entry is the envelope stored in every cache file.
type Entry struct {
	Schema uint16       `json:"schema" msgpack:"schema"`
	Tree   *syntax.Tree `json:"tree" msgpack:"tree"`
}

// Codec serializes syntax trees to bytes and back.
type Codec interface {
	// Name is the format name used in configuration ("json", "msgpack").
	Name() string

	// Ext is the file extension for entries, including the dot.
	Ext() string

	Encode(tree *syntax.Tree) ([]byte, error)
	Decode(data []byte) (*syntax.Tree, error)
}

// Codec names.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Formats lists the supported codec names.
func Formats() []string {
	return []string{FormatJSON, FormatMsgpack}
}

// CodecFor returns the codec registered under name.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return JSONCodec{}, nil
	case FormatMsgpack:
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownCodec, name, strings.Join(Formats(), ", "))
	}
}

// JSONCodec stores trees as nested JSON objects.
type JSONCodec struct{}

func (JSONCodec) Name() string { return FormatJSON }
func (JSONCodec) Ext() string  { return ".json" }

func (JSONCodec) Encode(tree *syntax.Tree) ([]byte, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if err := checkText(tree); err != nil {
		return nil, err
	}
	data, err := json.Marshal(Entry{Schema: SchemaVersion, Tree: tree})
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

func (JSONCodec) Decode(data []byte) (*syntax.Tree, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return entry.check()
}

// MsgpackCodec stores trees as MessagePack.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return FormatMsgpack }
func (MsgpackCodec) Ext() string  { return ".msgpack" }

func (MsgpackCodec) Encode(tree *syntax.Tree) ([]byte, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	data, err := msgpack.Marshal(&Entry{Schema: SchemaVersion, Tree: tree})
	if err != nil {
		return nil, fmt.Errorf("encode msgpack: %w", err)
	}
	return data, nil
}

func (MsgpackCodec) Decode(data []byte) (*syntax.Tree, error) {
	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return entry.check()
}

func (e *Entry) check() (*syntax.Tree, error) {
	if e.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, e.Schema, SchemaVersion)
	}
	if e.Tree == nil {
		return nil, ErrNilTree
	}
	return e.Tree, nil
}

// checkText rejects trees whose strings encoding/json would rewrite.
func checkText(tree *syntax.Tree) error {
	return syntax.Walk(tree.Root, func(n *syntax.Node) error {
		if !utf8.ValidString(n.Text) {
			return fmt.Errorf("%w: %s node at %s", ErrInvalidText, n.Type, n.Loc.Start())
		}
		return nil
	})
}
