// SPDX-License-Identifier: MPL-2.0

// Package member turns the shop's member directory feed into discount records
// and logs shoppers in against it.
//
// The feed is comma-separated text whose column names vary between shops.
// ParseDirectory maps them onto four logical fields by synonym, sanitizes the
// values and drops rows it cannot use. A shopper logs in with part of their
// name and the last four digits of their phone number.
package member
