// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq packs the call number and the position of the event within the call.
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	callTime INTEGER NOT NULL,
	caller BLOB(20) NOT NULL,
	method TEXT NOT NULL,
	address BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	topic0 BLOB(20),
	topic1 BLOB(20),
	topic2 BLOB(20),
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(callTime);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name, seq);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic2);
`
