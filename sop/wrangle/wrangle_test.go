package wrangle

import "testing"

type fakeChannels struct{ f float32 }

func (f fakeChannels) GetFloat(name string, def float32) float32 { return f.f }
func (f fakeChannels) GetInt(name string, def int64) int64       { return 0 }
func (f fakeChannels) DeclareChannel(name string) float32        { return f.f }

func TestAssignScalarComponent(t *testing.T) {
	prog, err := Parse(`@P.y = @P.y + 1;`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{P: [3]float64{0, 2, 0}, Channels: fakeChannels{}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.P[1] != 3 {
		t.Fatalf("P.y = %v, want 3", ctx.P[1])
	}
}

func TestAssignFullVector(t *testing.T) {
	prog, err := Parse(`@Cd = @P;`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{P: [3]float64{1, 2, 3}, Channels: fakeChannels{}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Cd != [3]float64{1, 2, 3} {
		t.Fatalf("Cd = %v, want {1,2,3}", ctx.Cd)
	}
}

func TestChannelRead(t *testing.T) {
	prog, err := Parse(`@P.x = @P.x * chf("scale");`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{P: [3]float64{2, 0, 0}, Channels: fakeChannels{f: 3}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.P[0] != 6 {
		t.Fatalf("P.x = %v, want 6", ctx.P[0])
	}
}

func TestFunctionsAndPtnum(t *testing.T) {
	prog, err := Parse(`@Cd.x = abs(-2) + sqrt(9) + @ptnum;`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{Ptnum: 1, Channels: fakeChannels{}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Cd[0] != 6 {
		t.Fatalf("Cd.x = %v, want 6", ctx.Cd[0])
	}
}

func TestChannelReadViaCh(t *testing.T) {
	prog, err := Parse(`@P.x = @P.x * ch("scale");`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{P: [3]float64{2, 0, 0}, Channels: fakeChannels{f: 4}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.P[0] != 8 {
		t.Fatalf("P.x = %v, want 8", ctx.P[0])
	}
}

func TestTimeBuiltin(t *testing.T) {
	prog, err := Parse(`@Cd.x = @time;`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := &Context{Time: 2.5, Channels: fakeChannels{}}
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Cd[0] != 2.5 {
		t.Fatalf("Cd.x = %v, want 2.5", ctx.Cd[0])
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse(`@P.y = ;`); err == nil {
		t.Fatal("expected parse error")
	}
}
