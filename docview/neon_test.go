package docview

import "testing"

func TestNeonCompilerTogglesLowercaseOnly(t *testing.T) {
	var c NeonCompiler
	c.AppendSource([]byte("Ab1"))
	got := c.Compile()
	want := []byte{'A', 'b' ^ 0x80, '1'}
	if string(got) != string(want) {
		t.Errorf("Compile() = %v, want %v", got, want)
	}
}

func TestNeonCompilerAppendSourceAccumulatesAcrossCalls(t *testing.T) {
	var c NeonCompiler
	c.AppendSource([]byte("ab"))
	c.AppendSource([]byte("cd"))
	got := c.Compile()
	if len(got) != 4 {
		t.Fatalf("len(Compile()) = %d, want 4", len(got))
	}
}

func TestNeonCompilerResetClearsSource(t *testing.T) {
	var c NeonCompiler
	c.AppendSource([]byte("abc"))
	c.Reset()
	c.AppendSource([]byte("x"))
	got := c.Compile()
	if len(got) != 1 {
		t.Fatalf("len(Compile()) = %d, want 1 after Reset", len(got))
	}
}

func TestNeonCompilerCompiledReturnsLastResult(t *testing.T) {
	var c NeonCompiler
	c.AppendSource([]byte("z"))
	c.Compile()
	if string(c.Compiled()) != string([]byte{'z' ^ 0x80}) {
		t.Errorf("Compiled() = %v", c.Compiled())
	}
}
