package backend

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// modpElement is a residue modulo the group's prime p.
type modpElement struct {
	v *big.Int
}

func (e *modpElement) Bytes() []byte {
	if e == nil || e.v == nil {
		return nil
	}
	return e.v.Bytes()
}

func (e *modpElement) Equal(other Element) bool {
	o, ok := other.(*modpElement)
	if !ok || o == nil {
		return false
	}
	return e.v.Cmp(o.v) == 0
}

func (e *modpElement) IsIdentity() bool {
	return e.v.Cmp(big.NewInt(1)) == 0
}

// modpScalar is an integer modulo the group order q. Its backing value
// lives in an embedded Secret, so the scalar inherits redacted
// printing and an explicit Zero.
type modpScalar struct {
	*Secret
}

// ModpBackend implements Backend over the multiplicative group
// (Z/pZ)*, restricted to the prime-order-q subgroup generated by g and h.
type ModpBackend struct {
	name string
	p, q *big.Int
	g, h *big.Int
}

// NewModpBackend constructs a MODP backend from an RFC 5114 parameter set.
func NewModpBackend(name string, p, q, g, h *big.Int) *ModpBackend {
	return &ModpBackend{name: name, p: p, q: q, g: g, h: h}
}

func (b *ModpBackend) Name() string { return b.name }

func (b *ModpBackend) Generators() (Element, Element) {
	return &modpElement{v: new(big.Int).Set(b.g)}, &modpElement{v: new(big.Int).Set(b.h)}
}

func (b *ModpBackend) Order() *big.Int {
	return new(big.Int).Set(b.q)
}

func (b *ModpBackend) Identity() Element {
	return &modpElement{v: big.NewInt(1)}
}

func (b *ModpBackend) Op(a, c Element) Element {
	ae, aok := a.(*modpElement)
	ce, cok := c.(*modpElement)
	if !aok || !cok {
		return nil
	}
	v := new(big.Int).Mul(ae.v, ce.v)
	v.Mod(v, b.p)
	return &modpElement{v: v}
}

func (b *ModpBackend) Exp(base Element, e Scalar) Element {
	be, ok := base.(*modpElement)
	if !ok {
		return nil
	}
	es, ok := e.(*modpScalar)
	if !ok {
		return nil
	}
	v := new(big.Int).Exp(be.v, es.raw(), b.p)
	return &modpElement{v: v}
}

func (b *ModpBackend) Inverse(a Element) Element {
	ae, ok := a.(*modpElement)
	if !ok {
		return nil
	}
	v := new(big.Int).ModInverse(ae.v, b.p)
	return &modpElement{v: v}
}

func (b *ModpBackend) RandomScalar() (Scalar, error) {
	v, err := rand.Int(rand.Reader, new(big.Int).Sub(b.q, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("modp: failed to generate random scalar: %w", err)
	}
	v.Add(v, big.NewInt(1)) // shift into [1, q)
	return &modpScalar{Secret: newSecret(v)}, nil
}

func (b *ModpBackend) ScalarFromBytes(bs []byte) Scalar {
	v := new(big.Int).SetBytes(bs)
	v.Mod(v, b.q)
	return &modpScalar{Secret: newSecret(v)}
}

func (b *ModpBackend) ScalarFromHash(digest []byte) Scalar {
	return b.ScalarFromBytes(digest)
}

func (b *ModpBackend) ElementToBytes(a Element) []byte {
	ae, ok := a.(*modpElement)
	if !ok {
		return nil
	}
	return ae.Bytes()
}

func (b *ModpBackend) ElementFromBytes(bs []byte) (Element, error) {
	if len(bs) == 0 {
		return nil, fmt.Errorf("%w: empty element", ErrDeserialization)
	}
	v := new(big.Int).SetBytes(bs)
	if v.Sign() <= 0 || v.Cmp(b.p) >= 0 {
		return nil, fmt.Errorf("%w: element out of range", ErrDeserialization)
	}
	if new(big.Int).Exp(v, b.q, b.p).Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("%w: element not in the prime-order subgroup", ErrDeserialization)
	}
	return &modpElement{v: v}, nil
}

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("backend: invalid embedded RFC 5114 constant")
	}
	return v
}

// RFC 5114 group parameters, transcribed from RFC 5114 §§2.1-2.3.

var (
	rfc5114Modp1024160P = hexBig("B10B8F96A080E01DDE92DE5EAE5D54EC52C99FBCFB06A3C69A6A9DCA52D23B616073E28675A23D189838EF1E2EE652C013ECB4AEA906112324975C3CD49B83BFACCBDD7D90C4BD7098488E9C219A73724EFFD6FAE5644738FAA31A4FF55BCCC0A151AF5F0DC8B4BD45BF37DF365C1A65E68CFDA76D4DA708DF1FB2BC2E4A4371")
	rfc5114Modp1024160Q = hexBig("F518AA8781A8DF278ABA4E7D64B7CB9D49462353")
	rfc5114Modp1024160G = hexBig("A4D1CBD5C3FD34126765A442EFB99905F8104DD258AC507FD6406CFF14266D31266FEA1E5C41564B777E690F5504F213160217B4B01B886A5E91547F9E2749F4D7FBD7D3B9A92EE1909D0D2263F80A76A6A24C087A091F531DBF0A0169B6A28AD662A4D18E73AFA32D779D5918D08BC8858F4DCEF97C2A24855E6EEB22B3B2E5")
	rfc5114Modp1024160H = hexBig("4BFE69CCAB1878A8B2DD9B4F83FFAC8D659EFA94698852F75A47EA4F7545230AD20FFB306DE1C24B5856E0D2C4798B3CC65A0307538B6E431CB94EB62892B0296B281D31EA58A9CC9D5917BF4BAD70AE5B1363F63A9164A1442DA843FCFC3752B366BC3DE27819C41C44426C80203AB8BB511D93AEA55AD70CC31A5A989FC413")

	rfc5114Modp2048224P = hexBig("AD107E1E9123A9D0D660FAA79559C51FA20D64E5683B9FD1B54B1597B61D0A75E6FA141DF95A56DBAF9A3C407BA1DF15EB3D688A309C180E1DE6B85A1274A0A66D3F8152AD6AC2129037C9EDEFDA4DF8D91E8FEF55B7394B7AD5B7D0B6C12207C9F98D11ED34DBF6C6BA0B2C8BBC27BE6A00E0A0B9C49708B3BF8A317091883681286130BC8985DB1602E714415D9330278273C7DE31EFDC7310F7121FD5A07415987D9ADC0A486DCDF93ACC44328387315D75E198C641A480CD86A1B9E587E8BE60E69CC928B2B9C52172E413042E9B23F10B0E16E79763C9B53DCF4BA80A29E3FB73C16B8E75B97EF363E2FFA31F71CF9DE5384E71B81C0AC4DFFE0C10E64F")
	rfc5114Modp2048224Q = hexBig("801C0D34C58D93FE997177101F80535A4738CEBCBF389A99B36371EB")
	rfc5114Modp2048224G = hexBig("AC4032EF4F2D9AE39DF30B5C8FFDAC506CDEBE7B89998CAF74866A08CFE4FFE3A6824A4E10B9A6F0DD921F01A70C4AFAAB739D7700C29F52C57DB17C620A8652BE5E9001A8D66AD7C17669101999024AF4D027275AC1348BB8A762D0521BC98AE247150422EA1ED409939D54DA7460CDB5F6C6B250717CBEF180EB34118E98D119529A45D6F834566E3025E316A330EFBB77A86F0C1AB15B051AE3D428C8F8ACB70A8137150B8EEB10E183EDD19963DDD9E263E4770589EF6AA21E7F5F2FF381B539CCE3409D13CD566AFBB48D6C019181E1BCFE94B30269EDFE72FE9B6AA4BD7B5A0F1C71CFFF4C19C418E1F6EC017981BC087F2A7065B384B890D3191F2BFA")
	rfc5114Modp2048224H = hexBig("2B08F613407C962D9625F571A9D42CBB9076B11751076EA2EC11B8A88F331BEB20020E310AAF2BC1B4AD60718367E684C488826E1853202A7F51A706A0C524C748D87B70B8AE6796FD36278412E01E55583C9C59D333DD6D5FC9A46724043165EFFB5C5F2A02E0FFC436E475B600B0B32C8657697CB56235BA2EA0570859FEAB405BA17ECA75F9FDFCF64FBE3F81C6228D8454B7B96B92815C44C140B7FB92A32E970DB6379D50079591A1C812DCD554F3DA6EF4079381EDAEBC5DF78BC882FAF701B2DF6CBA88601746B3AF0CFEBFEFEE3E723B47D20B6F828DBC40221CD979915811BB43FD087CB9416CB1279B852697544CCF5B404E587563E9A76F52AE8A")

	rfc5114Modp2048256P = hexBig("87A8E61DB4B6663CFFBBD19C651959998CEEF608660DD0F25D2CEED4435E3B00E00DF8F1D61957D4FAF7DF4561B2AA3016C3D91134096FAA3BF4296D830E9A7C209E0C6497517ABD5A8A9D306BCF67ED91F9E6725B4758C022E0B1EF4275BF7B6C5BFC11D45F9088B941F54EB1E59BB8BC39A0BF12307F5C4FDB70C581B23F76B63ACAE1CAA6B7902D52526735488A0EF13C6D9A51BFA4AB3AD8347796524D8EF6A167B5A41825D967E144E5140564251CCACB83E6B486F6B3CA3F7971506026C0B857F689962856DED4010ABD0BE621C3A3960A54E710C375F26375D7014103A4B54330C198AF126116D2276E11715F693877FAD7EF09CADB094AE91E1A1597")
	rfc5114Modp2048256Q = hexBig("8CF83642A709A097B447997640129DA299B1A47D1EB3750BA308B0FE64F5FBD3")
	rfc5114Modp2048256G = hexBig("3FB32C9B73134D0B2E77506660EDBD484CA7B18F21EF205407F4793A1A0BA12510DBC15077BE463FFF4FED4AAC0BB555BE3A6C1B0C6B47B1BC3773BF7E8C6F62901228F8C28CBB18A55AE31341000A650196F931C77A57F2DDF463E5E9EC144B777DE62AAAB8A8628AC376D282D6ED3864E67982428EBC831D14348F6F2F9193B5045AF2767164E1DFC967C1FB3F2E55A4BD1BFFE83B9C80D052B985D182EA0ADB2A3B7313D3FE14C8484B1E052588B9B7D2BBD2DF016199ECD06E1557CD0915B3353BBB64E0EC377FD028370DF92B52C7891428CDC67EB6184B523D1DB246C32F63078490F00EF8D647D148D47954515E2327CFEF98C582664B4C0F6CC41659")
	rfc5114Modp2048256H = hexBig("5AAD0D96AC4DDE50F71307E4F9FF1E1FC0CC2DA0B81402FCCDB6DC541F3693B82499073C613C922F7275EE228B5426FBB6D6290411BA8FA5315F340DBC3D08A18A0644118C280DB17E33B9E7996D4920F911648DB55E242183ABAB41C1F0E0F9BE3DC0A10728E8B3A0D1E2F2C671013D0787B727E5B4C565FBA7F1F3E7274D565B701D2BB0A3936D70D81806FAE9453541684AFE105BADA312424CEF301B6D4FB7B04BF768A71F56AA3C19C51504EDC70DE7E43676B01EFA618DFDE2B9C00018285E0E7E2FFF3EC3FDAC8CC496D48750603CDD59B784B110F85271C2CE3D604FF7644A96B1FB32C12D3DD3B237E81A9997D6A79D738E64080957E2AB0EBA8B61")
)

// NewRFC5114MODP1024160 returns the 1024-bit MODP group with a 160-bit
// prime-order subgroup, per RFC 5114 §2.1.
func NewRFC5114MODP1024160() *ModpBackend {
	return NewModpBackend("rfc5114_modp_1024_160", rfc5114Modp1024160P, rfc5114Modp1024160Q, rfc5114Modp1024160G, rfc5114Modp1024160H)
}

// NewRFC5114MODP2048224 returns the 2048-bit MODP group with a 224-bit
// prime-order subgroup, per RFC 5114 §2.2.
func NewRFC5114MODP2048224() *ModpBackend {
	return NewModpBackend("rfc5114_modp_2048_224", rfc5114Modp2048224P, rfc5114Modp2048224Q, rfc5114Modp2048224G, rfc5114Modp2048224H)
}

// NewRFC5114MODP2048256 returns the 2048-bit MODP group with a 256-bit
// prime-order subgroup, per RFC 5114 §2.3.
func NewRFC5114MODP2048256() *ModpBackend {
	return NewModpBackend("rfc5114_modp_2048_256", rfc5114Modp2048256P, rfc5114Modp2048256Q, rfc5114Modp2048256G, rfc5114Modp2048256H)
}
