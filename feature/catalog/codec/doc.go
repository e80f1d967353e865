// Package codec converts human-entered packet quantities and prices to their
// canonical stored forms and back.
//
// Quantities are stored in a single int64 column:
//
//	integer   100      -> 1000        value*10
//	decimal   1.025    -> 10253       scaled*10 + places
//	fraction  1 3/8    -> -1381       -(((whole*10^d + num)*10^d + den)*10 + d)
//
// where d is the digit width of the reduced denominator. The sign separates
// fractions from the other forms and the low digit carries either the number
// of decimal places or the denominator width, so Decode needs nothing but the
// stored value. Equal quantities always share one encoding, which lets a
// query select a row by any of the three input forms.
//
// Prices are stored as integer cents.
package codec
