/*
Package sale implements a single item escrow sale.

A seller lists one asset at a fixed price, a buyer deposits funds and the
seller settles against the buyer balance. Settlement moves the asset to the
buyer holdings, pays the seller and terminates the contract for good.

The state lives in five buckets: the contract record with the seller and the
current buyer, the seller listings, the seller funds, the buyer funds and the
buyer holdings. Every mutating operation of the Ledger first builds a plan
that checks all preconditions against a read only view of the store, and
only then applies all writes.
*/
package sale
