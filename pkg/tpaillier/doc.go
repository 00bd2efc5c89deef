// Package tpaillier implements threshold decryption for Paillier ciphertexts.
//
// The decryption exponent d, with d = 0 (mod ϕ(N)) and d = 1 (mod N), is shared
// among the parties 1, …, n with a Shamir sharing over the integers of degree t-1.
// Each party raises the ciphertext to its share and to its Lagrange coefficient
// (scaled by Δ = n! to stay integral), and the product of any t of these partial
// decryptions is (1+N)^(4Δ²⋅m). The constant θ = 4Δ² is then removed in ℤₙ.
//
// The set of parties whose partial decryptions are combined (the reconstruction set)
// must be agreed upon before anyone decrypts, since each partial decryption already
// contains the Lagrange coefficient for that set. It is always passed explicitly;
// party.FirstN(t) gives the set {1, …, t}.
//
// Each party also holds an additive share x of N⁻¹ (mod ϕ(N)), with which all
// parties together can recover the nonce ρ of a ciphertext after decryption.
//
// Key material comes from an external distributed key generation protocol, or
// from Deal, which plays the role of a trusted dealer.
package tpaillier
