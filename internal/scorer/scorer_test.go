package scorer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeScorer writes a shell script that reads the -i tree-pair file (so the
// test can assert it was populated) and drops a fixed score, formatted the
// way the real binary's result file is documented to look (a trailing ']'
// stripped from the last token), into -o.
func fakeScorer(t *testing.T, score string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-mulrf.sh")
	script := "#!/bin/sh\n" +
		"while [ \"$1\" != \"\" ]; do\n" +
		"  case $1 in\n" +
		"    -i) infile=$2; shift 2;;\n" +
		"    -o) outfile=$2; shift 2;;\n" +
		"    *) shift;;\n" +
		"  esac\n" +
		"done\n" +
		"test -s \"$infile\" || exit 1\n" +
		"echo \"done score " + score + "]\" > \"$outfile\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake scorer: %s", err)
	}
	return path
}

func TestScoreParsesTrailingBracketToken(t *testing.T) {
	bin := fakeScorer(t, "4.0")
	prefix := filepath.Join(t.TempDir(), "run1")
	got, err := Score(context.Background(), bin, "(A,B,(C,D));", "(A,B,(C,D));", prefix)
	if err != nil {
		t.Fatalf("Score: %s", err)
	}
	if got != 4.0 {
		t.Errorf("score = %v, want 4.0", got)
	}
	if _, err := os.Stat(prefix + ".tree"); !os.IsNotExist(err) {
		t.Errorf("expected tree-pair file to be cleaned up")
	}
	if _, err := os.Stat(prefix + ".out"); !os.IsNotExist(err) {
		t.Errorf("expected result file to be cleaned up")
	}
}

func TestScoreFailsOnNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "broken.sh")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("writing broken scorer: %s", err)
	}
	prefix := filepath.Join(dir, "run2")
	_, err := Score(context.Background(), bin, "(A,B);", "(A,B);", prefix)
	if err == nil {
		t.Fatalf("expected an error when the scorer exits non-zero")
	}
}
