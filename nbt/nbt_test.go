package nbt_test

import (
	"bytes"
	"testing"

	"github.com/mcproto/core/nbt"
)

func TestScalarRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tag  nbt.Tag
	}{
		{"byte", nbt.Byte(-12)},
		{"short", nbt.Short(-1000)},
		{"int", nbt.Int(123456)},
		{"long", nbt.Long(-9223372036854775808)},
		{"float", nbt.Float(3.25)},
		{"double", nbt.Double(-1.5e10)},
		{"string", nbt.String("hello, nbt")},
		{"bytearray", nbt.ByteArray{1, 2, 3, 255}},
		{"intarray", nbt.IntArray{1, -2, 3}},
		{"longarray", nbt.LongArray{1, -2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := nbt.EncodeNetwork(tt.tag)
			if err != nil {
				t.Fatalf("EncodeNetwork: %v", err)
			}
			got, err := nbt.DecodeNetwork(data)
			if err != nil {
				t.Fatalf("DecodeNetwork: %v", err)
			}
			gotData, err := nbt.EncodeNetwork(got)
			if err != nil {
				t.Fatalf("re-encode: %v", err)
			}
			if !bytes.Equal(data, gotData) {
				t.Fatalf("round trip mismatch: %x != %x", data, gotData)
			}
		})
	}
}

func TestCompoundPreservesInsertionOrder(t *testing.T) {
	c := nbt.NewCompound()
	order := []string{"zebra", "apple", "middle", "aardvark"}
	for i, name := range order {
		c.Put(name, nbt.Int(int32(i)))
	}

	data, err := nbt.EncodeNetwork(c)
	if err != nil {
		t.Fatalf("EncodeNetwork: %v", err)
	}

	decoded, err := nbt.DecodeNetwork(data)
	if err != nil {
		t.Fatalf("DecodeNetwork: %v", err)
	}
	got, ok := decoded.(*nbt.Compound)
	if !ok {
		t.Fatalf("decoded tag is %T, want *Compound", decoded)
	}

	entries := got.Entries()
	if len(entries) != len(order) {
		t.Fatalf("got %d entries, want %d", len(entries), len(order))
	}
	for i, name := range order {
		if entries[i].Name != name {
			t.Fatalf("entry %d = %q, want %q (order not preserved)", i, entries[i].Name, name)
		}
	}

	reEncoded, err := nbt.EncodeNetwork(got)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(data, reEncoded) {
		t.Fatalf("byte-for-byte round trip failed:\n%x\n%x", data, reEncoded)
	}
}

func TestCompoundPutUpdatesInPlace(t *testing.T) {
	c := nbt.NewCompound()
	c.Put("a", nbt.Int(1))
	c.Put("b", nbt.Int(2))
	c.Put("a", nbt.Int(99))

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected update in place, got %d entries", len(entries))
	}
	if entries[0].Name != "a" || c.GetInt("a") != 99 {
		t.Fatalf("entry 0 = %+v, GetInt(a) = %d", entries[0], c.GetInt("a"))
	}
}

func TestNestedCompound(t *testing.T) {
	inner := nbt.NewCompound().Put("x", nbt.Double(1.5)).Put("y", nbt.Double(2.5))
	outer := nbt.NewCompound().Put("pos", inner).Put("name", nbt.String("origin"))

	data, err := nbt.EncodeFile(outer, "root")
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	decoded, rootName, err := nbt.DecodeFile(data)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if rootName != "root" {
		t.Fatalf("root name = %q, want %q", rootName, "root")
	}

	got, ok := decoded.(*nbt.Compound)
	if !ok {
		t.Fatalf("decoded is %T, want *Compound", decoded)
	}
	innerGot := got.GetCompound("pos")
	if innerGot == nil {
		t.Fatalf("missing nested compound %q", "pos")
	}
	if innerGot.GetDouble("x") != 1.5 || innerGot.GetDouble("y") != 2.5 {
		t.Fatalf("nested values mismatch: %+v", innerGot)
	}
}

func TestEmptyList(t *testing.T) {
	l := nbt.List{ElementType: nbt.TagEnd}
	data, err := nbt.EncodeNetwork(l)
	if err != nil {
		t.Fatalf("EncodeNetwork: %v", err)
	}
	decoded, err := nbt.DecodeNetwork(data)
	if err != nil {
		t.Fatalf("DecodeNetwork: %v", err)
	}
	got, ok := decoded.(nbt.List)
	if !ok || got.Len() != 0 {
		t.Fatalf("decoded = %+v (%T), want empty List", decoded, decoded)
	}
}

func TestListOfCompounds(t *testing.T) {
	l := nbt.List{
		ElementType: nbt.TagCompound,
		Elements: []nbt.Tag{
			nbt.NewCompound().Put("id", nbt.Int(1)),
			nbt.NewCompound().Put("id", nbt.Int(2)),
		},
	}
	data, err := nbt.EncodeNetwork(l)
	if err != nil {
		t.Fatalf("EncodeNetwork: %v", err)
	}
	decoded, err := nbt.DecodeNetwork(data)
	if err != nil {
		t.Fatalf("DecodeNetwork: %v", err)
	}
	got := decoded.(nbt.List)
	if got.Len() != 2 {
		t.Fatalf("got %d elements, want 2", got.Len())
	}
	first := got.Get(0).(*nbt.Compound)
	if first.GetInt("id") != 1 {
		t.Fatalf("first element id = %d, want 1", first.GetInt("id"))
	}
}

func TestListElementTypeMismatchRejected(t *testing.T) {
	l := nbt.List{
		ElementType: nbt.TagInt,
		Elements:    []nbt.Tag{nbt.Int(1), nbt.String("oops")},
	}
	if _, err := nbt.EncodeNetwork(l); err == nil {
		t.Fatalf("expected an error encoding a heterogeneous list")
	}
}

func TestMaxDepthEnforced(t *testing.T) {
	deep := nbt.Tag(nbt.Int(0))
	for i := 0; i < 5; i++ {
		deep = nbt.NewCompound().Put("child", deep)
	}
	data, err := nbt.EncodeNetwork(deep)
	if err != nil {
		t.Fatalf("EncodeNetwork: %v", err)
	}

	r := nbt.NewReader(data, nbt.WithMaxDepth(2))
	if _, _, err := r.ReadTag(true); err == nil {
		t.Fatalf("expected a depth-limit error")
	}
}

func TestOversizedStringRejectedNotTruncated(t *testing.T) {
	huge := nbt.String(string(make([]byte, 70000)))
	if _, err := nbt.EncodeNetwork(huge); err == nil {
		t.Fatalf("expected an error encoding a string over 65535 bytes, got nil")
	}
}

func TestReadRejectsOversizedDeclaredCount(t *testing.T) {
	// Network-format TAG_Int_Array: one type byte, then a 4-byte big-endian
	// element count claiming far more elements than the byte budget below
	// could ever back.
	data := []byte{nbt.TagIntArray, 0x7F, 0xFF, 0xFF, 0xFF}
	if _, _, err := nbt.Decode(data, true, nbt.WithMaxBytes(1024)); err == nil {
		t.Fatalf("expected declared count to be rejected before allocation")
	}
}

func TestAcceptVisitorCountsCompoundEntries(t *testing.T) {
	c := nbt.NewCompound().Put("a", nbt.Int(1)).Put("b", nbt.Int(2)).Put("c", nbt.Int(3))

	var names []string
	v := &countingVisitor{onEntry: func(name string) { names = append(names, name) }}
	if err := nbt.AcceptVisitor(c, v); err != nil {
		t.Fatalf("AcceptVisitor: %v", err)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("visitor saw entries in order %v, want [a b c]", names)
	}
}

type countingVisitor struct {
	nbt.BaseVisitor
	onEntry func(name string)
}

func (v *countingVisitor) VisitCompoundStart() (nbt.Visitor, error) {
	return v, nil
}

func (v *countingVisitor) VisitCompoundEntry(name string, tagType byte) (nbt.Visitor, error) {
	v.onEntry(name)
	return nil, nil // skip the value itself
}
