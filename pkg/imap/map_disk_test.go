//spellchecker:words imap
package imap_test

//spellchecker:words testing github bindjoin binding imap
import (
	"testing"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/imap"
)

func TestDiskMap(t *testing.T) {
	t.Parallel()

	mapTest(t, imap.DiskMap[string]{Path: t.TempDir()}, stringLabel, 100)
}

func TestDiskMap_Terms(t *testing.T) {
	t.Parallel()

	mapTest(t, imap.DiskMap[binding.Term]{Path: t.TempDir()}, func(i int) binding.Term {
		switch i % 3 {
		case 0:
			return binding.Integer(int64(i))
		case 1:
			return binding.LangLiteral(stringLabel(i), "en")
		default:
			return binding.IRI("http://example.com/" + stringLabel(i))
		}
	}, 60)
}
