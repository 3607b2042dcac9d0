package assets

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/qmuntal/gltf"
)

// LoadFont loads a TrueType or OpenType face source.
func (s *Server) LoadFont(name string) *Handle[*text.GoTextFaceSource] {
	return Load(s, name, func(fsys fs.FS, name string) (*text.GoTextFaceSource, error) {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		return text.NewGoTextFaceSource(bytes.NewReader(b))
	})
}

type pcmStream interface {
	io.ReadSeeker
	Length() int64
}

// LoadMusic decodes an ogg or wav file into a player. Looping players
// repeat the whole stream forever.
func (s *Server) LoadMusic(ctx *audio.Context, name string, loop bool) *Handle[*audio.Player] {
	return Load(s, name, func(fsys fs.FS, name string) (*audio.Player, error) {
		if ctx == nil {
			return nil, fmt.Errorf("no audio context")
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		reader := bytes.NewReader(b)

		var stream pcmStream
		switch strings.ToLower(path.Ext(name)) {
		case ".ogg":
			stream, err = vorbis.DecodeWithSampleRate(ctx.SampleRate(), reader)
		case ".wav":
			stream, err = wav.DecodeWithSampleRate(ctx.SampleRate(), reader)
		default:
			return nil, fmt.Errorf("unsupported audio format %q", path.Ext(name))
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}

		if loop {
			return ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
		}
		return ctx.NewPlayer(stream)
	})
}

// LoadScene decodes a glTF document. External buffers are resolved relative
// to the document's directory.
func (s *Server) LoadScene(name string) *Handle[*gltf.Document] {
	return Load(s, name, DecodeScene)
}

func DecodeScene(fsys fs.FS, name string) (*gltf.Document, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := path.Dir(name)
	sub := fsys
	if dir != "." {
		if sub, err = fs.Sub(fsys, dir); err != nil {
			return nil, err
		}
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(f, sub).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
