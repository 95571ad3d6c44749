package decode

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"
)

// ArchiveContents is the token stream for each of the five EDIGEO
// thematic files in one sheet bundle (spec §2): THF/SCD/GEO/QAL are
// each exactly one file; VEC may be split across several members and is
// concatenated in archive order.
type ArchiveContents struct {
	THF []Token
	SCD []Token
	GEO []Token
	QAL []Token
	VEC []Token
}

// OpenArchive reads a .tar.bz2 sheet bundle and tokenizes its members.
// THF, SCD, and GEO are mandatory (MissingMember if absent); QAL and VEC
// are optional, a sheet with no VEC member simply yields no features
// (spec §4.1).
func OpenArchive(path string) (*ArchiveContents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ArchiveIO.Wrap(fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	tr := tar.NewReader(bzip2.NewReader(f))

	contents := &ArchiveContents{}
	var sawTHF, sawSCD, sawGEO bool

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ArchiveIO.Wrap(fmt.Errorf("read %s: %w", path, err))
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		tokens, err := tokenizeMember(tr, hdr.Name)
		if err != nil {
			return nil, ArchiveIO.Wrap(fmt.Errorf("%s: %w", hdr.Name, err))
		}

		switch memberKind(hdr.Name) {
		case "THF":
			contents.THF = append(contents.THF, tokens...)
			sawTHF = true
		case "SCD":
			contents.SCD = append(contents.SCD, tokens...)
			sawSCD = true
		case "GEO":
			contents.GEO = append(contents.GEO, tokens...)
			sawGEO = true
		case "QAL":
			contents.QAL = append(contents.QAL, tokens...)
		case "VEC":
			contents.VEC = append(contents.VEC, tokens...)
		}
	}

	switch {
	case !sawTHF:
		return nil, MissingMember.Wrap(fmt.Errorf("%s: no THF member", path))
	case !sawSCD:
		return nil, MissingMember.Wrap(fmt.Errorf("%s: no SCD member", path))
	case !sawGEO:
		return nil, MissingMember.Wrap(fmt.Errorf("%s: no GEO member", path))
	}

	return contents, nil
}

// memberKind classifies a tar member by its file extension, case
// insensitively; EDIGEO exports from different tools disagree on case.
func memberKind(name string) string {
	ext := strings.ToUpper(strings.TrimPrefix(lastExt(name), "."))
	switch ext {
	case "THF", "SCD", "GEO", "QAL", "VEC":
		return ext
	default:
		return ""
	}
}

func lastExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

func tokenizeMember(r io.Reader, name string) ([]Token, error) {
	sc := NewScanner(r)
	var tokens []Token
	for {
		tok, ok, err := sc.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		// Value aliases the scanner's internal buffer; copy before retaining.
		value := make([]byte, len(tok.Value))
		copy(value, tok.Value)
		tokens = append(tokens, Token{Tag: tok.Tag, Value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
