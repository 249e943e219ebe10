package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>dexcore dashboard</title>
<style>
  body { font-family: monospace; background: #0f172a; color: #e2e8f0; margin: 2rem; }
  h1 { color: #a78bfa; }
  table { border-collapse: collapse; margin-bottom: 1.5rem; }
  td, th { border: 1px solid #334155; padding: 0.3rem 0.8rem; text-align: right; }
  th { color: #94a3b8; }
  .profit { color: #4ade80; }
  .loss { color: #f87171; }
</style>
</head>
<body>
<h1>dexcore</h1>
<table id="ledger">
  <tr><th>pair</th><th>USDC</th><th>USDT</th><th>N9G</th><th>staked</th><th>APY</th><th>earnings</th><th>bot profit</th></tr>
  <tr><td colspan="8">waiting for data…</td></tr>
</table>
<h2>Recent activity</h2>
<table id="activity">
  <tr><th>time</th><th>strategy</th><th>pair</th><th>profit</th></tr>
</table>
<script>
const ledger = new EventSource('/ledger/stream');
ledger.addEventListener('ledger', (e) => {
  const u = JSON.parse(e.data);
  const row = document.querySelector('#ledger tr:nth-child(2)');
  row.innerHTML =
    '<td>' + u.pair + '</td>' +
    '<td>' + (u.balances['USDC'] || '0') + '</td>' +
    '<td>' + (u.balances['USDT'] || '0') + '</td>' +
    '<td>' + (u.balances['N9G'] || '0') + '</td>' +
    '<td>' + u.staked + '</td>' +
    '<td>' + u.apy + '</td>' +
    '<td>' + u.earnings + '</td>' +
    '<td>' + u.bot_profit + '</td>';
});
const activity = new EventSource('/activity/stream');
activity.addEventListener('activity', (e) => {
  const ev = JSON.parse(e.data);
  const table = document.getElementById('activity');
  const row = table.insertRow(1);
  const cls = ev.profit.startsWith('-') ? 'loss' : 'profit';
  row.innerHTML =
    '<td>' + new Date(ev.time).toLocaleTimeString() + '</td>' +
    '<td>' + ev.strategy + '</td>' +
    '<td>' + ev.pair + '</td>' +
    '<td class="' + cls + '">' + ev.profit + '</td>';
  while (table.rows.length > 21) table.deleteRow(-1);
});
</script>
</body>
</html>`
