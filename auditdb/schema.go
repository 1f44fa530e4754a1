// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auditdb

// one row per emitted pool event
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	kind integer not null,
	who blob(20),
	amount blob(32),
	time integer
);

CREATE INDEX if not exists whoIndex on event(who);
CREATE INDEX if not exists kindIndex on event(kind);
`
