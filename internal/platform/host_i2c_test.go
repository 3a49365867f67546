package platform

import (
	"errors"
	"testing"

	"si72xx-go/drivers/si72xx"
)

func seq(vals ...uint16) func() uint16 {
	i := 0
	return func() uint16 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func TestHostI2CContinuousEndToEnd(t *testing.T) {
	bus := NewHostI2C(si72xx.AddressDefault)
	bus.Field = seq(0x00FF, 0x7FFF, 0x0100)

	d, err := si72xx.Open(func(int) (si72xx.I2CBus, error) { return bus, nil }, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.ConfigureContinuous(); err != nil {
		t.Fatal(err)
	}
	if bus.Register(si72xx.RegCtrl4) != 0x04 || bus.Register(si72xx.RegCtrl3) != 0x02 {
		t.Fatal("free-run registers not applied")
	}

	n := len(bus.Log)
	for _, want := range []si72xx.Sample{255, 32767, 256} {
		got, err := d.ReadSample()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %d want %d", got, want)
		}
	}
	if len(bus.Log)-n != 3 {
		t.Fatalf("%d transactions for 3 samples", len(bus.Log)-n)
	}
	if err := d.Close(); err != nil || !bus.Closed() {
		t.Fatalf("close: %v closed=%v", err, bus.Closed())
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestHostI2COneShotDoesNotTear(t *testing.T) {
	bus := NewHostI2C(si72xx.AddressDefault)
	bus.Field = seq(0x1234, 0x5678)
	d := si72xx.New(si72xx.NewSMBus(bus), bus, 0)
	if err := d.ConfigureOneShot(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []si72xx.Sample{0x1234, 0x5678} {
		got, err := d.ReadSampleOneShot()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %#x want %#x", uint16(got), uint16(want))
		}
	}
	if bus.Register(si72xx.RegPowerCtrl)&si72xx.PowerOneBurstMask != 0 {
		t.Fatal("ONEBURST did not self-clear")
	}
}

func TestHostI2CTemperature(t *testing.T) {
	bus := NewHostI2C(si72xx.AddressDefault)
	bus.SetRegister(si72xx.RegOTPTempOffset, 0x10)
	d := si72xx.New(si72xx.NewSMBus(bus), bus, 0)
	if err := d.ConfigureContinuous(); err != nil {
		t.Fatal(err)
	}
	tc, err := d.ReadTemperature()
	if err != nil {
		t.Fatal(err)
	}
	if got := tc.DeciCelsius(); got != 271 {
		t.Fatalf("deci-celsius %d", got)
	}
	if bus.Register(si72xx.RegDSPSIGSEL) != si72xx.SelMagnetic {
		t.Fatal("output select not restored")
	}
}

func TestHostI2CFaults(t *testing.T) {
	bus := NewHostI2C(si72xx.AddressDefault)
	boom := errors.New("boom")
	bus.FailNext(1, boom)
	d := si72xx.New(si72xx.NewSMBus(bus), bus, 0)

	err := d.ConfigureContinuous()
	var we *si72xx.RegisterWriteError
	if !errors.As(err, &we) || we.Register != si72xx.RegARAUTOINC || !errors.Is(err, boom) {
		t.Fatalf("err %v", err)
	}
	if err := d.ConfigureContinuous(); err != nil {
		t.Fatalf("fault did not clear: %v", err)
	}

	other := si72xx.New(si72xx.NewSMBus(bus), nil, 0x31)
	if _, err := other.ReadSample(); !errors.Is(err, ErrNACK) {
		t.Fatalf("wrong address acknowledged: %v", err)
	}

	_ = bus.Close()
	if err := bus.Tx(si72xx.AddressDefault, []byte{si72xx.RegHREVID}, make([]byte, 1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("tx after close: %v", err)
	}
}

func TestSimulatedOpener(t *testing.T) {
	d, err := si72xx.Open(Opener(true), 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	rev, err := d.Revision()
	if err != nil || rev != 0x04 {
		t.Fatalf("revision %#x err %v", rev, err)
	}
}
