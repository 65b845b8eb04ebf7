// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the ledger.
// It follows the flow as below:
//
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	         |
//	 [ committed cache ]
//	         |
//	     [ kv store ]
//
// Every call runs on top of a checkpoint; a failed call reverts to it, so
// readers never see a partially applied call.
package state
